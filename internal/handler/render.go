package handler

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/msomdec/storefront/internal/view"
)

// renderPage writes an HTML component with the given status.
func renderPage(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render page", "error", err, "path", r.URL.Path)
	}
}

// navFor builds the navbar state for the request's principal.
func navFor(r *http.Request) view.Nav {
	if user := UserFromContext(r.Context()); user != nil {
		return view.Nav{Email: user.Email}
	}
	return view.Nav{}
}

func serverErrorPage(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.Error(msg, "error", err, "request_id", RequestIDFromContext(r.Context()))
	renderPage(w, r, http.StatusInternalServerError,
		view.ErrorPage(navFor(r), http.StatusInternalServerError, "Something went wrong", "An unexpected error occurred. Please try again."))
}
