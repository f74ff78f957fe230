package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/coursegraph/internal/config"
	"github.com/agenthands/coursegraph/internal/core"
	"github.com/agenthands/coursegraph/internal/core/extraction"
	"github.com/agenthands/coursegraph/internal/core/ingest"
	"github.com/agenthands/coursegraph/internal/core/model"
	"github.com/agenthands/coursegraph/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, llmClient *extraction.MockLLMClient, build bool) (*gin.Engine, *core.Engine) {
	t.Helper()
	opts := core.Options{Sources: []ingest.Source{
		{Path: filepath.Join("..", "core", "testdata", "university.json"), Catalog: model.CatalogUniversity},
		{Path: filepath.Join("..", "core", "testdata", "competency.json"), Catalog: model.CatalogCompetency},
	}}
	var extractor *extraction.Extractor
	if llmClient != nil {
		extractor = extraction.NewExtractor(llmClient, config.Prompts{})
	}
	engine := core.NewEngine(opts, extractor, logger.Nop())
	if build {
		_, err := engine.Build(context.Background())
		require.NoError(t, err)
	}
	srv := NewServer(engine, config.Default().Server, logger.Nop())
	return srv.SetupRouter(), engine
}

func do(r *gin.Engine, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, engine := newTestRouter(t, nil, false)

	w := do(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	_, err := engine.Build(context.Background())
	require.NoError(t, err)
	w = do(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), engine.BuildID())
}

func TestGraph(t *testing.T) {
	r, engine := newTestRouter(t, nil, true)

	w := do(r, http.MethodGet, "/graph", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view model.GraphView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, engine.BuildID(), view.BuildID)
	assert.Len(t, view.Nodes, len(engine.GetGraph().Nodes))
	assert.NotEmpty(t, view.Edges)
}

func TestRoadmap(t *testing.T) {
	r, engine := newTestRouter(t, nil, true)

	w := do(r, http.MethodGet, "/roadmap?target="+urlEncode("AI 모델러"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Target  string                 `json:"target"`
		Roadmap []model.SubjectSummary `json:"roadmap"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, engine.GetRoadmap("AI 모델러"), resp.Roadmap)

	w = do(r, http.MethodGet, "/roadmap?target=Quantum", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"roadmap":[]`)
}

func TestRoadmap_BadRequest(t *testing.T) {
	r, _ := newTestRouter(t, nil, true)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/roadmap", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/roadmap?target=x&min_confidence=abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/roadmap?target=x&min_confidence=1.5", nil).Code)
}

func TestSuccessors(t *testing.T) {
	r, engine := newTestRouter(t, nil, true)

	w := do(r, http.MethodGet, "/successors?subject="+urlEncode("자료구조")+"&min_confidence=0.5", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Successors []model.Successor `json:"successors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, engine.GetSuccessors("자료구조", core.WithMinConfidence(0.5)), resp.Successors)
	assert.NotEmpty(t, resp.Successors)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/successors", nil).Code)
}

func TestAsk(t *testing.T) {
	mock := &extraction.MockLLMClient{Response: `{"mode": "roadmap", "target": "AI 모델러"}`}
	r, engine := newTestRouter(t, mock, true)

	w := do(r, http.MethodPost, "/ask", []byte(`{"question": "AI 모델러가 되고 싶어"}`))
	require.Equal(t, http.StatusOK, w.Code)

	var answer model.Answer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &answer))
	assert.Equal(t, model.QueryRoadmap, answer.Query.Mode)
	assert.Equal(t, engine.GetRoadmap("AI 모델러"), answer.Roadmap)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/ask", []byte(`{}`)).Code)

	mock.Response = "not json"
	assert.Equal(t, http.StatusBadGateway, do(r, http.MethodPost, "/ask", []byte(`{"question": "?"}`)).Code)
}

func TestAsk_NotConfigured(t *testing.T) {
	r, _ := newTestRouter(t, nil, true)

	w := do(r, http.MethodPost, "/ask", []byte(`{"question": "자료구조 다음은?"}`))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRebuild(t *testing.T) {
	r, engine := newTestRouter(t, nil, true)
	before := engine.BuildID()

	w := do(r, http.MethodPost, "/rebuild", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, before, engine.BuildID())
	assert.Contains(t, w.Body.String(), engine.BuildID())
}

func TestMetrics(t *testing.T) {
	r, _ := newTestRouter(t, nil, true)
	do(r, http.MethodGet, "/roadmap?target=x", nil)

	w := do(r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "coursegraph_builds_total"))
}

func urlEncode(s string) string {
	return url.QueryEscape(s)
}
