package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/storefront/internal/domain"
	"github.com/msomdec/storefront/internal/service"
	"github.com/msomdec/storefront/internal/view"
)

// AuthHandler handles signup, login and logout.
type AuthHandler struct {
	auth         *service.AuthService
	limiter      *service.TokenBucket
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler. limiter guards login attempts
// per client IP.
func NewAuthHandler(auth *service.AuthService, limiter *service.TokenBucket, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, limiter: limiter, cookieSecure: cookieSecure}
}

// HandleSignupPage renders the signup form.
// GET /signup
func (h *AuthHandler) HandleSignupPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, http.StatusOK, view.SignupPage(view.SignupForm{}, ""))
}

// HandleSignup registers a user from the signup form.
// POST /signup
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	form := view.SignupForm{
		Email:    r.PostFormValue("email"),
		Username: r.PostFormValue("username"),
	}

	_, err := h.auth.Register(r.Context(), form.Email, form.Username, r.PostFormValue("password"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateUser):
			renderPage(w, r, http.StatusConflict, view.SignupPage(form, "User already registered!"))
		case errors.Is(err, domain.ErrInvalidInput):
			renderPage(w, r, http.StatusUnprocessableEntity, view.SignupPage(form, err.Error()))
		default:
			serverErrorPage(w, r, "register user", err)
		}
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleLoginPage renders the login form.
// GET /login
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, http.StatusOK, view.LoginPage("", ""))
}

// HandleLogin verifies credentials and sets the session cookie.
// POST /login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")

	if !h.limiter.Allow(clientIP(r)) {
		slog.Warn("login rate limited", "ip", clientIP(r))
		renderPage(w, r, http.StatusTooManyRequests, view.LoginPage(email, "Too many login attempts. Please wait a minute and try again."))
		return
	}

	token, err := h.auth.Login(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			renderPage(w, r, http.StatusUnauthorized, view.LoginPage(email, "User not found"))
		case errors.Is(err, domain.ErrInvalidCredential):
			renderPage(w, r, http.StatusUnauthorized, view.LoginPage(email, "Invalid credential"))
		default:
			serverErrorPage(w, r, "login user", err)
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.auth.TokenTTL().Seconds()),
	})
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

// HandleLogout clears the session cookie. The token itself stays valid
// until it expires.
// GET /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleStatus reports who the session cookie belongs to.
// GET /auth/status
// Response: {"user": "<email>"} or {"user": null}
func (h *AuthHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	var status AuthStatusDTO
	if user := UserFromContext(r.Context()); user != nil {
		status.User = &user.Email
	}
	writeJSON(w, http.StatusOK, status)
}
