package handler_test

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authd/internal/auth"
	"authd/internal/handler"
	"authd/internal/repository"
	"authd/internal/router"
	"authd/internal/service"
)

// newTestServer wires the full HTTP surface over the in-memory repository.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	repo := repository.NewMemoryRepository()
	hasher := auth.NewBcryptHasher(4)

	identity := service.NewIdentityService(repo, hasher)
	sessions := service.NewSessionService(repo, nil)
	reset := service.NewResetService(repo, hasher)

	e := echo.New()
	router.Register(e,
		handler.NewUserHandler(identity),
		handler.NewSessionHandler(identity, sessions),
		handler.NewResetHandler(reset),
	)
	return e
}

func postForm(e *echo.Echo, method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == handler.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestRegisterEndpoint(t *testing.T) {
	e := newTestServer(t)
	creds := url.Values{"email": {"a@x.com"}, "password": {"pw1"}}

	rec := postForm(e, http.MethodPost, "/users", creds, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "a@x.com", body["email"])
	assert.Equal(t, "user created", body["message"])

	rec = postForm(e, http.MethodPost, "/users", creds, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email already registered", decodeBody(t, rec)["message"])

	rec = postForm(e, http.MethodPost, "/users", url.Values{"email": {"b@x.com"}}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginEndpoint(t *testing.T) {
	e := newTestServer(t)
	postForm(e, http.MethodPost, "/users", url.Values{"email": {"a@x.com"}, "password": {"pw1"}}, nil)

	t.Run("wrong password", func(t *testing.T) {
		rec := postForm(e, http.MethodPost, "/sessions", url.Values{"email": {"a@x.com"}, "password": {"nope"}}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, sessionCookie(rec))
	})

	t.Run("form credentials", func(t *testing.T) {
		rec := postForm(e, http.MethodPost, "/sessions", url.Values{"email": {"a@x.com"}, "password": {"pw1"}}, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "logged in", body["message"])

		cookie := sessionCookie(rec)
		require.NotNil(t, cookie)
		assert.NotEmpty(t, cookie.Value)
	})

	t.Run("basic auth header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
		req.Header.Set(echo.HeaderAuthorization,
			"Basic "+base64.StdEncoding.EncodeToString([]byte("a@x.com:pw1")))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, sessionCookie(rec))
	})
}

func TestProfileAndLogout(t *testing.T) {
	e := newTestServer(t)
	postForm(e, http.MethodPost, "/users", url.Values{"email": {"a@x.com"}, "password": {"pw1"}}, nil)

	login := postForm(e, http.MethodPost, "/sessions", url.Values{"email": {"a@x.com"}, "password": {"pw1"}}, nil)
	cookie := sessionCookie(login)
	require.NotNil(t, cookie)

	t.Run("profile without cookie", func(t *testing.T) {
		rec := postForm(e, http.MethodGet, "/profile", nil, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("profile with bogus cookie", func(t *testing.T) {
		rec := postForm(e, http.MethodGet, "/profile", nil, &http.Cookie{Name: handler.SessionCookieName, Value: "bogus"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("profile with session", func(t *testing.T) {
		rec := postForm(e, http.MethodGet, "/profile", nil, cookie)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "a@x.com", decodeBody(t, rec)["email"])
	})

	t.Run("logout redirects and invalidates", func(t *testing.T) {
		rec := postForm(e, http.MethodDelete, "/sessions", nil, cookie)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

		rec = postForm(e, http.MethodGet, "/profile", nil, cookie)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = postForm(e, http.MethodDelete, "/sessions", nil, cookie)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestResetPasswordEndpoints(t *testing.T) {
	e := newTestServer(t)
	postForm(e, http.MethodPost, "/users", url.Values{"email": {"a@x.com"}, "password": {"pw1"}}, nil)

	t.Run("unknown email", func(t *testing.T) {
		rec := postForm(e, http.MethodPost, "/reset_password", url.Values{"email": {"nobody@x.com"}}, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	var resetToken string
	t.Run("issue token", func(t *testing.T) {
		rec := postForm(e, http.MethodPost, "/reset_password", url.Values{"email": {"a@x.com"}}, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "a@x.com", body["email"])
		resetToken = body["reset_token"]
		assert.NotEmpty(t, resetToken)
	})

	t.Run("update password", func(t *testing.T) {
		form := url.Values{
			"email":        {"a@x.com"},
			"reset_token":  {resetToken},
			"new_password": {"pw2"},
		}
		rec := postForm(e, http.MethodPut, "/reset_password", form, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Password updated", decodeBody(t, rec)["message"])

		// Old password no longer works, new one does
		rec = postForm(e, http.MethodPost, "/sessions", url.Values{"email": {"a@x.com"}, "password": {"pw1"}}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		rec = postForm(e, http.MethodPost, "/sessions", url.Values{"email": {"a@x.com"}, "password": {"pw2"}}, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("token is single-use", func(t *testing.T) {
		form := url.Values{
			"email":        {"a@x.com"},
			"reset_token":  {resetToken},
			"new_password": {"pw3"},
		}
		rec := postForm(e, http.MethodPut, "/reset_password", form, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
