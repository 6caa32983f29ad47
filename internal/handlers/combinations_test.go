package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MariamKalashyan/combinations-api/internal/combinator"
	"github.com/MariamKalashyan/combinations-api/internal/models"
	"github.com/MariamKalashyan/combinations-api/internal/service"
	"github.com/MariamKalashyan/combinations-api/internal/store"
)

type stubStore struct {
	id      int64
	saveErr error
}

func (s *stubStore) SaveGeneration(context.Context, []int, int, []combinator.Group, []combinator.Combination) (int64, error) {
	if s.saveErr != nil {
		return 0, s.saveErr
	}
	s.id++
	return s.id, nil
}

func (s *stubStore) GetResponse(_ context.Context, id int64) (*models.Response, error) {
	if id != s.id {
		return nil, store.ErrNotFound
	}
	return &models.Response{ID: id, Items: []int{1, 2, 1}, Length: 2, CombinationCount: 5}, nil
}

func newRouter(st store.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	h := NewCombinationsHandler(service.NewCombinationService(st, nil, logger), logger)

	router := gin.New()
	router.POST("/api/v1/generate", h.Generate)
	router.GET("/api/v1/response/:id", h.GetResponse)
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	return rec
}

func TestGenerateEndpoint(t *testing.T) {
	router := newRouter(&stubStore{})

	rec := doRequest(router, http.MethodPost, "/api/v1/generate", `{"items":[1,2,1],"length":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.GenerationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotNil(t, result.ID)
	assert.Equal(t, int64(1), *result.ID)
	assert.Equal(t, []combinator.Combination{
		{"A1", "B1"}, {"A1", "B2"}, {"A1", "C1"},
		{"B1", "C1"}, {"B2", "C1"},
	}, result.Combinations)
}

func TestGenerateEndpointEmptyResult(t *testing.T) {
	router := newRouter(&stubStore{})

	rec := doRequest(router, http.MethodPost, "/api/v1/generate", `{"items":[1,1],"length":3}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.GenerationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Nil(t, result.ID)
	assert.Empty(t, result.Combinations)
}

func TestGenerateEndpointValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "malformed json", body: `{"items":`, message: "invalid request body"},
		{name: "missing fields", body: `{}`, message: "length must be >= 1"},
		{name: "zero length", body: `{"items":[1,2],"length":0}`, message: "length must be >= 1"},
		{name: "negative length", body: `{"items":[1,2],"length":-1}`, message: "length must be >= 1"},
		{name: "empty items", body: `{"items":[],"length":1}`, message: "items must be a non-empty array"},
		{name: "negative item", body: `{"items":[1,-2],"length":1}`, message: "items must contain non-negative integers"},
	}

	router := newRouter(&stubStore{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodPost, "/api/v1/generate", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "BAD_REQUEST")
			var envelope struct {
				Error struct {
					Message string `json:"message"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
			assert.Contains(t, envelope.Error.Message, tt.message)
		})
	}
}

func TestGenerateEndpointPersistenceFailure(t *testing.T) {
	router := newRouter(&stubStore{saveErr: errors.New("constraint violation")})

	rec := doRequest(router, http.MethodPost, "/api/v1/generate", `{"items":[2,1],"length":1}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "DATABASE_ERROR")
}

func TestGetResponseEndpoint(t *testing.T) {
	st := &stubStore{}
	router := newRouter(st)

	doRequest(router, http.MethodPost, "/api/v1/generate", `{"items":[1,2,1],"length":2}`)

	rec := doRequest(router, http.MethodGet, "/api/v1/response/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(5), resp.CombinationCount)

	rec = doRequest(router, http.MethodGet, "/api/v1/response/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/v1/response/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
