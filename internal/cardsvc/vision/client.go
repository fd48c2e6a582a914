package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/teklemt/cardscan-service/internal/cardsvc/models"
)

var (
	// ErrUpstream marks transport-level failures: the vision endpoint
	// was unreachable, timed out or answered a non-success status. A
	// reply that merely cannot be parsed is NOT an error; it degrades
	// to placeholder fields instead.
	ErrUpstream = errors.New("vision api request failed")

	// ErrBadImage marks input the service could not decode at all.
	ErrBadImage = errors.New("could not decode image")
)

const instruction = `Extract the following fields from this business card image:
- name (full name of the person)
- email (email address)
- phone (phone number)
- company (company/organization name)

Respond ONLY with a JSON object in this exact format:
{"name": "...", "email": "...", "phone": "...", "company": "..."}

If a field is not found, use an empty string.`

const systemPrompt = "You are an OCR assistant that extracts structured business card details. Always respond with valid JSON only."

type Client struct {
	apiURL     string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(apiURL, apiKey, model string) *Client {
	return &Client{
		apiURL: apiURL,
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configured reports whether the client has the credentials it needs.
func (c *Client) Configured() bool {
	return c.apiURL != "" && c.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Extract sends the image to the vision endpoint and returns the parsed
// field set. Oversized images are downscaled and re-encoded as JPEG
// before transmission.
func (c *Client) Extract(ctx context.Context, data []byte) (models.CardFields, error) {
	if !c.Configured() {
		return models.CardFields{}, fmt.Errorf("%w: client not configured", ErrUpstream)
	}

	encoded, err := normalizeImage(data)
	if err != nil {
		return models.CardFields{}, err
	}
	b64 := base64.StdEncoding.EncodeToString(encoded)

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: instruction},
				{Type: "image_url", ImageURL: &imageURL{URL: "data:image/jpeg;base64," + b64}},
			}},
		},
		Temperature: 0.1,
		MaxTokens:   500,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return models.CardFields{}, fmt.Errorf("marshal vision request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return models.CardFields{}, fmt.Errorf("build vision request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.CardFields{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.CardFields{}, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil || len(result.Choices) == 0 {
		// The call itself succeeded; an unreadable reply degrades to
		// placeholders rather than failing the whole request.
		log.Warnf("vision reply not usable, returning placeholders: %v", err)
		return ParseFields(""), nil
	}

	return ParseFields(result.Choices[0].Message.Content), nil
}
