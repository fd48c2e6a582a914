package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/require"

	"github.com/teklemt/cardscan-service/internal/cardsvc/mailer"
	"github.com/teklemt/cardscan-service/internal/cardsvc/models"
	"github.com/teklemt/cardscan-service/internal/cardsvc/service"
	"github.com/teklemt/cardscan-service/internal/cardsvc/store"
)

const testAPIKey = "test-secret"

// memStore is an in-memory stand-in for the Postgres card store with the
// same ordering, filtering and not-found semantics.
type memStore struct {
	nextID int64
	clock  time.Time
	cards  map[int64]models.Card
	calls  int
}

func newMemStore() *memStore {
	return &memStore{
		clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		cards: map[int64]models.Card{},
	}
}

func (m *memStore) Create(ctx context.Context, in models.CardInput) (int64, error) {
	m.calls++
	m.nextID++
	m.clock = m.clock.Add(time.Minute)
	m.cards[m.nextID] = models.Card{
		ID:        m.nextID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Company:   in.Company,
		CreatedAt: m.clock,
	}
	return m.nextID, nil
}

func (m *memStore) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	m.calls++
	c, ok := m.cards[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (m *memStore) Update(ctx context.Context, id int64, in models.CardInput) error {
	m.calls++
	c, ok := m.cards[id]
	if !ok {
		return store.ErrNotFound
	}
	c.Name, c.Email, c.Phone, c.Company = in.Name, in.Email, in.Phone, in.Company
	m.cards[id] = c
	return nil
}

func (m *memStore) Delete(ctx context.Context, id int64) error {
	m.calls++
	if _, ok := m.cards[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.cards, id)
	return nil
}

func (m *memStore) List(ctx context.Context, page, pageSize int, search string) ([]models.Card, int, error) {
	m.calls++

	matches := func(c models.Card) bool {
		if search == "" {
			return true
		}
		needle := strings.ToLower(search)
		return strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Email), needle) ||
			strings.Contains(strings.ToLower(c.Company), needle)
	}

	filtered := []models.Card{}
	for _, c := range m.cards {
		if matches(c) {
			filtered = append(filtered, c)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		if !filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		}
		return filtered[i].ID > filtered[j].ID
	})

	total := len(filtered)
	start := (page - 1) * pageSize
	if start >= total {
		return []models.Card{}, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return filtered[start:end], total, nil
}

func (m *memStore) Recipients(ctx context.Context) ([]models.Contact, error) {
	m.calls++
	contacts := []models.Contact{}
	for _, c := range m.cards {
		if c.Email != "" {
			contacts = append(contacts, models.Contact{Name: c.Name, Email: c.Email, Company: c.Company})
		}
	}
	return contacts, nil
}

type fakeExtractor struct {
	fields     models.CardFields
	err        error
	configured bool
	calls      int
}

func (f *fakeExtractor) Extract(ctx context.Context, data []byte) (models.CardFields, error) {
	f.calls++
	if f.err != nil {
		return models.CardFields{}, f.err
	}
	return f.fields, nil
}

func (f *fakeExtractor) Configured() bool { return f.configured }

type welcomeCall struct {
	to, name, company string
	cardID            int64
}

type fakeMailer struct {
	welcomes    []welcomeCall
	batches     [][]models.Contact
	result      mailer.BatchResult
	failWelcome bool
	emailLog    *fakeEmailLog
	calls       int
}

func (f *fakeMailer) SendWelcome(ctx context.Context, toEmail, name, company string, cardID int64) mailer.SendResult {
	f.calls++
	f.welcomes = append(f.welcomes, welcomeCall{to: toEmail, name: name, company: company, cardID: cardID})
	if f.failWelcome {
		return mailer.SendResult{Success: false, Message: "delivery refused", To: toEmail}
	}
	// mirror the real service: a delivered welcome is recorded for the
	// status probe
	if f.emailLog != nil && cardID != 0 {
		f.emailLog.counts[cardID]++
	}
	return mailer.SendResult{Success: true, To: toEmail, MessageID: "msg-" + toEmail}
}

func (f *fakeMailer) SendBatch(ctx context.Context, contacts []models.Contact) mailer.BatchResult {
	f.calls++
	f.batches = append(f.batches, contacts)
	return f.result
}

type fakeWebInfoStore struct {
	created []models.WebInfo
	calls   int
}

func (f *fakeWebInfoStore) Create(ctx context.Context, w models.WebInfo) (int64, error) {
	f.calls++
	f.created = append(f.created, w)
	return int64(len(f.created)), nil
}

type fakeEmailLog struct {
	counts map[int64]int
	calls  int
}

func (f *fakeEmailLog) CountForCard(ctx context.Context, cardID int64) (int, error) {
	f.calls++
	return f.counts[cardID], nil
}

type testEnv struct {
	router    *chi.Mux
	cards     *memStore
	extractor *fakeExtractor
	mailer    *fakeMailer
	webInfo   *fakeWebInfoStore
	emailLog  *fakeEmailLog
}

func newTestEnv() *testEnv {
	env := &testEnv{
		cards:     newMemStore(),
		extractor: &fakeExtractor{configured: true},
		mailer:    &fakeMailer{},
		webInfo:   &fakeWebInfoStore{},
		emailLog:  &fakeEmailLog{counts: map[int64]int{}},
	}
	env.mailer.emailLog = env.emailLog

	h := NewHandler(
		service.NewCardService(env.cards),
		env.extractor,
		env.mailer,
		service.NewWebInfoService(env.webInfo),
		env.emailLog,
		testAPIKey,
	)

	env.router = chi.NewRouter()
	h.SetRoutes(env.router)
	return env
}

// externalCalls sums every fake's call counter, for asserting that an
// unauthorized request touched nothing.
func (e *testEnv) externalCalls() int {
	return e.cards.calls + e.extractor.calls + e.mailer.calls + e.webInfo.calls + e.emailLog.calls
}

func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, method, path, strings.NewReader(body), "application/json")
}

// imageUpload builds a multipart body with a single "file" part carrying
// the given MIME type.
func imageUpload(t *testing.T, fieldContentType string) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="card.jpg"`)
	header.Set("Content-Type", fieldContentType)

	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func newRouterFor(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	h.SetRoutes(r)
	return r
}

func doWith(t *testing.T, router *chi.Mux, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "body: %s", w.Body.String())
}
