package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/gorilla/csrf"
	"github.com/stretchr/testify/require"

	"github.com/cyber924/taebaek/internal/platform/requestctx"
)

func TestHTMXAnnotatesContext(t *testing.T) {
	t.Parallel()

	var got HTMXInfo
	var fragment bool
	handler := HTMX()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = HTMXInfoFromContext(r.Context())
		fragment = IsHTMXRequest(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/fragments/dong-grid", nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Target", "dong-grid")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.True(t, got.IsHTMX)
	require.True(t, fragment)
	require.Equal(t, "dong-grid", got.Target)
	require.Equal(t, "HX-Request", rec.Header().Get("Vary"))

	req = httptest.NewRequest(http.MethodGet, "/dong", nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Boosted", "true")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.False(t, fragment)
}

func TestRequireHTMX(t *testing.T) {
	t.Parallel()

	handler := HTMX()(RequireHTMX(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fragments/place-grid", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/fragments/place-grid", nil)
	req.Header.Set("HX-Request", "true")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHiddenMarksAdminAndNoStore(t *testing.T) {
	t.Parallel()

	var admin bool
	handler := Hidden()(NoStore()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin = requestctx.IsAdmin(r.Context())
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hidden/visit", nil))

	require.True(t, admin)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestBasicAuth(t *testing.T) {
	t.Parallel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	t.Run("disabled without credentials", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		BasicAuth("", "secret")(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hidden/visit", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects missing and wrong credentials", func(t *testing.T) {
		t.Parallel()
		guarded := BasicAuth("editor", "secret")(ok)

		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hidden/visit", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")

		req := httptest.NewRequest(http.MethodGet, "/hidden/visit", nil)
		req.SetBasicAuth("editor", "nope")
		rec = httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("accepts matching credentials", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/hidden/visit", nil)
		req.SetBasicAuth("editor", "secret")
		rec := httptest.NewRecorder()
		BasicAuth("editor", "secret")(ok).ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCSRFRejectsPostWithoutToken(t *testing.T) {
	t.Parallel()

	var token string
	handler := CSRF(CSRFConfig{Key: []byte(strings.Repeat("k", 32))})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = csrf.Token(r)
		w.WriteHeader(http.StatusOK)
	}))
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	resp, err := http.PostForm(ts.URL+"/hidden/dong-register", url.Values{"dong_id": {"hwangji"}})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/hidden/dong-register")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, token)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/hidden/dong-register", strings.NewReader("dong_id=hwangji"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(CSRFHeaderName, token)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAssetsSetsETag(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"app.css": &fstest.MapFile{Data: []byte("body{}")}}
	handler := http.StripPrefix("/static/", Assets(fsys))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	require.Contains(t, rec.Header().Get("Cache-Control"), "max-age")

	req := httptest.NewRequest(http.MethodGet, "/static/app.css", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotModified, rec.Code)
}
