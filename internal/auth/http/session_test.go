package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func getJSON(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSessionEndpointAnonymous(t *testing.T) {
	r := newTestRouter(t)

	rec := getJSON(t, r, "/v1/auth/session")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Authenticated bool            `json:"authenticated"`
		User          json.RawMessage `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Authenticated)
	require.Nil(t, resp.User)
}

func TestSessionEndpointAfterSignIn(t *testing.T) {
	r := newTestRouter(t)

	rec := postJSON(t, r, "/v1/auth/email", map[string]string{
		"email":    demoEmail,
		"password": demoPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = getJSON(t, r, "/v1/auth/session")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Authenticated bool `json:"authenticated"`
		User          *struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Authenticated)
	require.NotNil(t, resp.User)
	require.Equal(t, demoEmail, resp.User.Email)
}

func TestSignOutEndpointIdempotent(t *testing.T) {
	r := newTestRouter(t)

	rec := postJSON(t, r, "/v1/auth/email", map[string]string{
		"email":    demoEmail,
		"password": demoPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signout", nil)
	rec2 := httptest.NewRecorder()
	r.ServeHTTP(rec2, req)
	require.Equal(t, http.StatusNoContent, rec2.Code)

	// Signing out again is still a 204.
	req = httptest.NewRequest(http.MethodPost, "/v1/auth/signout", nil)
	rec2 = httptest.NewRecorder()
	r.ServeHTTP(rec2, req)
	require.Equal(t, http.StatusNoContent, rec2.Code)

	rec = getJSON(t, r, "/v1/auth/session")
	var resp struct {
		Authenticated bool `json:"authenticated"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Authenticated)
}

func TestRoutesEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rec := getJSON(t, r, "/v1/auth/routes")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Routes []string `json:"routes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Empty(t, resp.Routes)

	rec = postJSON(t, r, "/v1/auth/email", map[string]string{
		"email":    demoEmail,
		"password": demoPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = getJSON(t, r, "/v1/auth/routes")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, []string{"/dashboard", "/articles"}, resp.Routes)
}

func TestLivezEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rec := getJSON(t, r, "/livez")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
	require.Equal(t, "test", resp.Version)
}

func TestReadyzEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rec := getJSON(t, r, "/readyz")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string `json:"status"`
		Checks struct {
			Database string `json:"database"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
	require.Equal(t, "ok", resp.Checks.Database)
}
