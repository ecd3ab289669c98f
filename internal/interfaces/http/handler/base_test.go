package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/finbooks/backend/internal/interfaces/http/dto"
	"github.com/finbooks/backend/internal/interfaces/http/middleware"
	"github.com/finbooks/backend/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestRouter builds a gin engine with the standard middleware and
// the given handlers registered under /api/v1
func setupTestRouter(registrars ...router.RouteRegistrar) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestID())

	r := router.NewRouter(engine)
	for _, registrar := range registrars {
		r.Register(registrar)
	}
	r.Setup()
	return engine
}

// performRequest executes an HTTP request against the test router
func performRequest(engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// decodeResponse unmarshals the envelope from a recorded response
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// decodeData unmarshals the envelope's data payload into a typed value
func decodeData(t *testing.T, resp dto.Response, out any) {
	t.Helper()
	payload, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(payload, out))
}

func TestBaseHandler_HandleError_NilError(t *testing.T) {
	engine := gin.New()
	h := &BaseHandler{}
	engine.GET("/noop", func(c *gin.Context) {
		h.HandleError(c, nil)
		h.Success(c, gin.H{"ok": true})
	})

	w := performRequest(engine, http.MethodGet, "/noop", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
