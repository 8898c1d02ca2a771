package server_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f4ah6o/pageserve-go/internal/pages"
	"github.com/f4ah6o/pageserve-go/internal/resolver"
	"github.com/f4ah6o/pageserve-go/internal/server"
)

const (
	indexHTML = "<!doctype html><title>Home</title><h1>home</h1>"
	fooHTML   = "<h1>foo</h1>"
	guideHTML = "<h1>guide</h1>"
	stylesCSS = "body { color: red; }"
)

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()

	p := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func newHandler(t *testing.T, withIndex bool) http.Handler {
	t.Helper()

	root := t.TempDir()
	if withIndex {
		writeFile(t, root, "index.html", indexHTML)
	}
	writeFile(t, root, "foo.html", fooHTML)
	writeFile(t, root, "styles.css", stylesCSS)
	writeFile(t, root, "docs/guide.html", guideHTML)

	return server.NewHandler(resolver.New(root), pages.English, nil)
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHandler(t *testing.T) {
	t.Parallel()

	h := newHandler(t, true)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantBody   string
		wantType   string
	}{
		{name: "Root index", target: "/", wantStatus: http.StatusOK, wantBody: indexHTML, wantType: "text/html; charset=utf-8"},
		{name: "Explicit index", target: "/index.html", wantStatus: http.StatusOK, wantBody: indexHTML},
		{name: "HTML with extension", target: "/foo.html", wantStatus: http.StatusOK, wantBody: fooHTML},
		{name: "HTML without extension", target: "/foo", wantStatus: http.StatusOK, wantBody: fooHTML},
		{name: "Static asset", target: "/styles.css", wantStatus: http.StatusOK, wantBody: stylesCSS, wantType: "text/css; charset=utf-8"},
		{name: "Nested HTML", target: "/docs/guide.html", wantStatus: http.StatusOK, wantBody: guideHTML},
		{name: "Nested without extension", target: "/docs/guide", wantStatus: http.StatusOK, wantBody: guideHTML},
		{name: "Missing", target: "/missing", wantStatus: http.StatusNotFound, wantBody: pages.English.NotFound},
		{name: "Missing asset", target: "/app.js", wantStatus: http.StatusNotFound, wantBody: pages.English.NotFound},
		{name: "Directory", target: "/docs", wantStatus: http.StatusNotFound, wantBody: pages.English.NotFound},
		{name: "Traversal", target: "/../foo.html", wantStatus: http.StatusNotFound, wantBody: pages.English.NotFound},
		{name: "Encoded traversal", target: "/%2e%2e/foo.html", wantStatus: http.StatusNotFound, wantBody: pages.English.NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := do(h, http.MethodGet, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestHandlerWelcome(t *testing.T) {
	t.Parallel()

	h := newHandler(t, false)

	rec := do(h, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pages.English.Welcome, rec.Body.String())
	assert.Equal(t, pages.ContentType, rec.Header().Get("Content-Type"))

	rec = do(h, http.MethodGet, "/index.html")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerLanguage(t *testing.T) {
	t.Parallel()

	h := server.NewHandler(resolver.New(t.TempDir()), pages.ForLang("zh-CN"), nil)

	assert.Equal(t, pages.Chinese.Welcome, do(h, http.MethodGet, "/").Body.String())
	assert.Equal(t, pages.Chinese.NotFound, do(h, http.MethodGet, "/x").Body.String())
}

func TestHandlerIdempotent(t *testing.T) {
	t.Parallel()

	h := newHandler(t, true)

	for _, target := range []string{"/", "/foo", "/styles.css", "/missing"} {
		first := do(h, http.MethodGet, target)
		second := do(h, http.MethodGet, target)
		assert.Equal(t, first.Code, second.Code, target)
		assert.Equal(t, first.Body.Bytes(), second.Body.Bytes(), target)
	}
}

func TestHandlerHead(t *testing.T) {
	t.Parallel()

	h := newHandler(t, true)

	rec := do(h, http.MethodHead, "/foo")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(h, http.MethodHead, "/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHandlerMethodNotAllowed(t *testing.T) {
	t.Parallel()

	h := newHandler(t, true)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		rec := do(h, method, "/foo")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)
		assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"), method)
	}
}

func TestHandlerRange(t *testing.T) {
	t.Parallel()

	h := newHandler(t, true)

	req := httptest.NewRequest(http.MethodGet, "/styles.css", nil)
	req.Header.Set("Range", "bytes=0-3")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, stylesCSS[:4], rec.Body.String())
}
