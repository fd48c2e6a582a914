package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teklemt/cardscan-service/internal/cardsvc/models"
)

func chatReply(content string) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	})
	return body
}

func TestExtract_Success(t *testing.T) {
	var gotAuth string
	var gotPayload chatRequest

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write(chatReply(`{"name": "Jane Doe", "email": "jane@acme.com", "phone": "", "company": "Acme Corp"}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "secret-key", "test-model")

	fields, err := c.Extract(context.Background(), encodePNG(t, 320, 200))
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", fields.Name)
	assert.Equal(t, "jane@acme.com", fields.Email)
	assert.Equal(t, models.Placeholder, fields.Phone)
	assert.Equal(t, "Acme Corp", fields.Company)

	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, "test-model", gotPayload.Model)
	assert.Len(t, gotPayload.Messages, 2)
}

func TestExtract_UpstreamStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "secret-key", "test-model")

	_, err := c.Extract(context.Background(), encodePNG(t, 32, 32))
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestExtract_UnreachableHost(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "secret-key", "test-model")

	_, err := c.Extract(context.Background(), encodePNG(t, 32, 32))
	assert.ErrorIs(t, err, ErrUpstream)
}

// A successful call with an unparseable reply is not an error, it
// degrades to placeholder fields.
func TestExtract_UnparseableReplyReturnsPlaceholders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatReply("I could not read anything useful from this image."))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "secret-key", "test-model")

	fields, err := c.Extract(context.Background(), encodePNG(t, 32, 32))
	require.NoError(t, err)
	assert.Equal(t, models.Placeholder, fields.Name)
	assert.Equal(t, models.Placeholder, fields.Email)
}

func TestExtract_MalformedEnvelopeReturnsPlaceholders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "secret-key", "test-model")

	fields, err := c.Extract(context.Background(), encodePNG(t, 32, 32))
	require.NoError(t, err)
	assert.Equal(t, models.Placeholder, fields.Name)
}

func TestExtract_NotConfigured(t *testing.T) {
	c := NewClient("", "", "test-model")
	assert.False(t, c.Configured())

	_, err := c.Extract(context.Background(), encodePNG(t, 32, 32))
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestExtract_BadImage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("upstream must not be called for an undecodable image")
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "secret-key", "test-model")

	_, err := c.Extract(context.Background(), []byte("junk"))
	assert.ErrorIs(t, err, ErrBadImage)
}
