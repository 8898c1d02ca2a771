// Package pages provides the fixed HTML fragments served when no file
// answers a request.
package pages

import (
	"net/http"
	"strconv"
)

// ContentType is the content type of every fragment.
const ContentType = "text/html; charset=utf-8"

// Set is one language's fragments.
type Set struct {
	// Lang is the BCP 47 tag of the set.
	Lang string
	// NotFound is served with 404 when a request path resolves to nothing.
	NotFound string
	// Welcome is served with 200 when "/" is requested and no index.html exists.
	Welcome string
}

// English is the default set.
var English = Set{
	Lang:     "en",
	NotFound: "<h1>404 - page not found</h1><p>requested file does not exist</p>",
	Welcome:  "<h1>Welcome</h1><p>index.html was not found</p>",
}

// Chinese is the set the server historically shipped with.
var Chinese = Set{
	Lang:     "zh",
	NotFound: "<h1>404 - 页面未找到</h1><p>请求的文件不存在</p>",
	Welcome:  "<h1>欢迎访问</h1><p>没有找到 index.html 文件</p>",
}

// WriteNotFound writes the 404 fragment.
func (s Set) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	write(w, r, http.StatusNotFound, s.NotFound)
}

// WriteWelcome writes the welcome fragment with status 200.
func (s Set) WriteWelcome(w http.ResponseWriter, r *http.Request) {
	write(w, r, http.StatusOK, s.Welcome)
}

func write(w http.ResponseWriter, r *http.Request, status int, body string) {
	h := w.Header()
	h.Set("Content-Type", ContentType)
	h.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)

	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write([]byte(body))
}
