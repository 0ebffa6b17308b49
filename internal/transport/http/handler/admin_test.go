package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListTokens(t *testing.T) {
	svc := &mockSessionSvc{}
	svc.On("ListActiveTokens", mock.Anything).Return([]string{"A", "B"}, nil)
	h := NewAdminHandler(svc)

	rr := httptest.NewRecorder()
	h.ListTokens(rr, httptest.NewRequest(http.MethodGet, "/v1/tokens", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var env TokensEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	assert.Equal(t, []string{"A", "B"}, env.Tokens)
}

func TestListTokens_EmptyIsArray(t *testing.T) {
	svc := &mockSessionSvc{}
	svc.On("ListActiveTokens", mock.Anything).Return(nil, nil)
	h := NewAdminHandler(svc)

	rr := httptest.NewRecorder()
	h.ListTokens(rr, httptest.NewRequest(http.MethodGet, "/v1/tokens", nil))

	assert.JSONEq(t, `{"tokens":[]}`, rr.Body.String())
}

func TestListTokens_StoreFailure(t *testing.T) {
	svc := &mockSessionSvc{}
	svc.On("ListActiveTokens", mock.Anything).Return(nil, errors.New("scan failed"))
	h := NewAdminHandler(svc)

	rr := httptest.NewRecorder()
	h.ListTokens(rr, httptest.NewRequest(http.MethodGet, "/v1/tokens", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
