// Package server provides the HTTP routing layer that answers requests
// with resolved files or the built-in pages.
package server

import (
	"log/slog"
	"net/http"

	"github.com/f4ah6o/pageserve-go/internal/pages"
	"github.com/f4ah6o/pageserve-go/internal/resolver"
)

// allowedMethods is sent in the Allow header of 405 responses.
const allowedMethods = "GET, HEAD"

// Handler serves files under a resolver's root.
type Handler struct {
	resolver *resolver.Resolver
	pages    pages.Set
	logger   *slog.Logger
}

// NewHandler creates a Handler. A nil logger discards file errors.
func NewHandler(res *resolver.Resolver, set pages.Set, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{resolver: res, pages: set, logger: logger}
}

// ServeHTTP implements [http.Handler].
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", allowedMethods)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	res := h.resolver.Resolve(r.URL.Path)
	recordKind(r, res.Kind)

	switch res.Kind {
	case resolver.Found:
		h.serveFile(w, r, res)
	case resolver.Welcome:
		h.pages.WriteWelcome(w, r)
	default:
		h.pages.WriteNotFound(w, r)
	}
}

func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, res resolver.Resolution) {
	f, err := h.resolver.Open(res)
	if err != nil {
		h.logger.Debug("open resolved file", slog.String("file", res.Name), slog.Any("error", err))
		recordKind(r, resolver.NotFound)
		h.pages.WriteNotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		h.logger.Debug("stat resolved file", slog.String("file", res.Name), slog.Any("error", err))
		recordKind(r, resolver.NotFound)
		h.pages.WriteNotFound(w, r)
		return
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
