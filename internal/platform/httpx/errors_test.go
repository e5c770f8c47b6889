package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userhub/userhub/internal/shared"
)

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error
}

func TestWriteErrorUnauthorized(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users/1", nil)
	err := fmt.Errorf("auth: require signin: %w", shared.NewUnauthorizedError("credentials_required", "No authorization token was found", nil))

	WriteError(rr, req, nil, err)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "UnauthorizedError: No authorization token was found", decodeError(t, rr))
}

func TestWriteErrorApplicationError(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/users/1", nil)

	WriteError(rr, req, nil, shared.Forbidden("User is not authorized"))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "User is not authorized", decodeError(t, rr))
}

func TestWriteErrorFallsBackToInternal(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)

	WriteError(rr, req, nil, errors.New("connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Internal Server Error", decodeError(t, rr))
}

func TestHandlePassesThroughSuccess(t *testing.T) {
	h := Handle(nil, func(w http.ResponseWriter, r *http.Request) error {
		Message(w, "ok")
		return nil
	})
	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"ok"}`, rr.Body.String())
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func TestDecodeJSONAndForm(t *testing.T) {
	jsonReq := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(`{"email":"joe@example.com","password":"secret1"}`))
	jsonReq.Header.Set("Content-Type", "application/json")
	var fromJSON credentials
	require.NoError(t, Decode(httptest.NewRecorder(), jsonReq, &fromJSON))
	assert.Equal(t, credentials{Email: "joe@example.com", Password: "secret1"}, fromJSON)

	formReq := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader("email=joe%40example.com&password=secret1"))
	formReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	var fromForm credentials
	require.NoError(t, Decode(httptest.NewRecorder(), formReq, &fromForm))
	assert.Equal(t, fromJSON, fromForm)
}

func TestDecodeEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/users", nil)
	var target credentials
	assert.NoError(t, Decode(httptest.NewRecorder(), req, &target))
	assert.Empty(t, target.Email)
}
