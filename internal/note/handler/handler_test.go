package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/carpeta/organizer/internal/note/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestNoteHandler_CRUD(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	RegisterNoteRoutes(g, service.NewMemoryService())

	// create
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/notes", strings.NewReader(`{"title":"Formulas","content":"a^2+b^2"}`))
	req.Header.Set("Content-Type", "application/json")
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	var cr map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cr))
	id := cr["id"]
	require.NotEmpty(t, id)
	require.Equal(t, "#FFFFFF", cr["color"])
	require.Equal(t, "Today", cr["lastEdited"])

	// partial update
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/api/notes/"+id, strings.NewReader(`{"color":"#E1BEE7"}`))
	req.Header.Set("Content-Type", "application/json")
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cr))
	require.Equal(t, "Formulas", cr["title"])
	require.Equal(t, "#E1BEE7", cr["color"])

	// fetch one
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/notes/"+id, nil)
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cr))
	require.Equal(t, "#E1BEE7", cr["color"])

	// search
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/notes?search=b%5E2", nil)
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)

	// delete
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/notes/"+id, nil)
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "message")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	g.ServeHTTP(w, req)
	require.JSONEq(t, `[]`, w.Body.String())
}

func TestNoteHandler_Errors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	RegisterNoteRoutes(g, service.NewMemoryService())

	for _, body := range []string{`{"title":"x"}`, `{"content":"y"}`, `not json`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/notes", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		g.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code, body)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/notes/nope", strings.NewReader(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/notes/nope", nil)
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/notes/nope", nil)
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}
