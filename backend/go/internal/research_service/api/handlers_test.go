package api

import (
	"ResearchHub/backend/go/internal/config"
	"ResearchHub/backend/go/internal/kvstore"
	"ResearchHub/backend/go/internal/models"
	"ResearchHub/backend/go/internal/research_service/service"
	"ResearchHub/backend/go/internal/research_service/store"
	"ResearchHub/backend/go/pkg/logger"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedAnalyzer struct {
	result models.AnalysisResult
}

func (a *fixedAnalyzer) Analyze(ctx context.Context, title, text string) (models.AnalysisResult, error) {
	return a.result, nil
}

func newTestRouter(t *testing.T, health map[string]HealthFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New("api_test", "")
	repo := store.NewRepository(kvstore.NewMemoryStore(), log)
	analyzer := &fixedAnalyzer{result: models.AnalysisResult{
		Summary:  "Meeting about graph theory",
		Keywords: []string{"graph", "theory"},
		Entities: []string{"Alice", "Bob"},
		Topic:    "Mathematics",
	}}
	svc := service.NewService(repo, analyzer, nil, config.UploadConfig{}, 1, log)

	return SetupRouter(NewHandler(svc, health), &config.AppConfig{}, log)
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func doRequest(router *gin.Engine, method, path, contentType string, body *bytes.Buffer) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func uploadOne(t *testing.T, router *gin.Engine, name, content string) string {
	t.Helper()
	body, contentType := multipartBody(t, map[string]string{name: content})
	w := doRequest(router, http.MethodPost, "/api/v1/documents/upload", contentType, body)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Results []struct {
			DocID string `json:"doc_id"`
			Error string `json:"error"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	require.Empty(t, resp.Results[0].Error)
	return resp.Results[0].DocID
}

func TestUploadAndGetDocument(t *testing.T) {
	router := newTestRouter(t, nil)

	docID := uploadOne(t, router, "notes.txt", "Alice met Bob to discuss graph theory.")

	w := doRequest(router, http.MethodGet, "/api/v1/documents/"+docID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Document   models.Document `json:"document"`
		Notes      []models.Note   `json:"notes"`
		LinkedDocs []string        `json:"linked_docs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "notes", resp.Document.Title)
	assert.Equal(t, []string{"Mathematics"}, resp.Document.Tags)
	assert.Equal(t, "Meeting about graph theory", resp.Document.Analysis.Summary)
	// Fresh documents always come back with empty (not absent) collections.
	assert.NotNil(t, resp.Notes)
	assert.NotNil(t, resp.LinkedDocs)
}

func TestUpload_NoFiles(t *testing.T) {
	router := newTestRouter(t, nil)

	body, contentType := multipartBody(t, nil)
	w := doRequest(router, http.MethodPost, "/api/v1/documents/upload", contentType, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpload_PartialFailure(t *testing.T) {
	router := newTestRouter(t, nil)

	body, contentType := multipartBody(t, map[string]string{
		"good.txt":   "valid content",
		"binary.exe": "not allowed",
	})
	w := doRequest(router, http.MethodPost, "/api/v1/documents/upload", contentType, body)
	// One file succeeded, so the overall upload reports created.
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Results []struct {
			Filename string `json:"filename"`
			Error    string `json:"error"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)

	failures := 0
	for _, r := range resp.Results {
		if r.Error != "" {
			failures++
			assert.Equal(t, "binary.exe", r.Filename)
		}
	}
	assert.Equal(t, 1, failures)
}

func TestListDocuments(t *testing.T) {
	router := newTestRouter(t, nil)
	uploadOne(t, router, "a.txt", "first")
	uploadOne(t, router, "b.txt", "second")

	w := doRequest(router, http.MethodGet, "/api/v1/documents", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var docs []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &docs))
	assert.Len(t, docs, 2)
	// The list view omits the full text.
	_, hasContent := docs[0]["content"]
	assert.False(t, hasContent)
}

func TestNotesTagsLinks(t *testing.T) {
	router := newTestRouter(t, nil)
	docA := uploadOne(t, router, "a.txt", "first")
	docB := uploadOne(t, router, "b.txt", "second")

	w := doRequest(router, http.MethodPost, "/api/v1/documents/"+docA+"/notes",
		"application/json", bytes.NewBufferString(`{"note":"read later"}`))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/documents/"+docA+"/tags",
		"application/json", bytes.NewBufferString(`{"tag":"to-read"}`))
	assert.Equal(t, http.StatusCreated, w.Code)

	// Adding the same tag again is an idempotent no-op.
	w = doRequest(router, http.MethodPost, "/api/v1/documents/"+docA+"/tags",
		"application/json", bytes.NewBufferString(`{"tag":"to-read"}`))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/documents/"+docA+"/links",
		"application/json", bytes.NewBufferString(`{"linked_doc_id":"`+docB+`"}`))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/documents/"+docA+"/links",
		"application/json", bytes.NewBufferString(`{"linked_doc_id":"`+docB+`"}`))
	assert.Equal(t, http.StatusOK, w.Code)

	// Missing required fields are rejected before touching the repository.
	w = doRequest(router, http.MethodPost, "/api/v1/documents/"+docA+"/notes",
		"application/json", bytes.NewBufferString(`{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown documents yield 404.
	w = doRequest(router, http.MethodPost, "/api/v1/documents/ghost/tags",
		"application/json", bytes.NewBufferString(`{"tag":"x"}`))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteDocument(t *testing.T) {
	router := newTestRouter(t, nil)
	docID := uploadOne(t, router, "a.txt", "first")

	w := doRequest(router, http.MethodDelete, "/api/v1/documents/"+docID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/documents/"+docID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodDelete, "/api/v1/documents/"+docID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegenerate_UnknownDocument(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doRequest(router, http.MethodPost, "/api/v1/documents/ghost/regenerate", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchAndTags(t *testing.T) {
	router := newTestRouter(t, nil)
	uploadOne(t, router, "quantum.txt", "about qubits")
	uploadOne(t, router, "baking.txt", "about flour")

	w := doRequest(router, http.MethodGet, "/api/v1/search?q=quant", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var docs []documentSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "quantum", docs[0].Title)

	// Both documents got the same topic from the analyzer, so filtering by it
	// returns both.
	w = doRequest(router, http.MethodGet, "/api/v1/search?tag=Mathematics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &docs))
	assert.Len(t, docs, 2)

	w = doRequest(router, http.MethodGet, "/api/v1/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tags []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tags))
	assert.Equal(t, []string{"Mathematics"}, tags)
}

func TestHealthz(t *testing.T) {
	healthy := map[string]HealthFunc{
		"redis": func(ctx context.Context) error { return nil },
	}
	router := newTestRouter(t, healthy)

	w := doRequest(router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"redis":"ok"`))
}

func TestHealthz_DependencyDown(t *testing.T) {
	failing := map[string]HealthFunc{
		"redis": func(ctx context.Context) error { return errors.New("connection refused") },
	}
	router := newTestRouter(t, failing)

	w := doRequest(router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
