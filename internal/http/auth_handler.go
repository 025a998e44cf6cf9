package httpapi

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/auth"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/session"
)

const (
	msgEmailNotFound     = "This email doesn't exist, please try again."
	msgBadPassword       = "Password incorrect, please try again."
	msgAlreadyRegistered = "You've already signed up with that email, log in instead!"
	msgMissingFields     = "Email and password are required."
)

func homeWithEmail(email string) string {
	return "/?" + url.Values{"user_email": {email}}.Encode()
}

func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login", map[string]any{
		"loggedIn": auth.FromContext(r.Context()).Authenticated(),
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	email, password := r.FormValue("email"), r.FormValue("password")

	id, err := h.auth.Login(r.Context(), email, password)
	switch {
	case errors.Is(err, auth.ErrEmailNotFound):
		h.metrics.AuthAttempt("login", "email_not_found")
		h.flashRedirect(w, r, "/login", msgEmailNotFound, "")
		return
	case errors.Is(err, auth.ErrBadPassword):
		h.metrics.AuthAttempt("login", "bad_password")
		h.flashRedirect(w, r, "/login", msgBadPassword, "")
		return
	case err != nil:
		h.serverError(w, r, err, "login")
		return
	}

	h.metrics.AuthAttempt("login", "ok")
	session.FromContext(r.Context()).Login(id.UserID)
	h.log(r).WithField("user_id", id.UserID).Info("user logged in")
	h.redirect(w, r, homeWithEmail(id.Email))
}

func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", nil)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	email, password := r.FormValue("email"), r.FormValue("password")

	id, err := h.auth.Register(r.Context(), email, password)
	switch {
	case errors.Is(err, auth.ErrEmailAlreadyRegistered):
		h.metrics.AuthAttempt("register", "already_registered")
		h.flashRedirect(w, r, "/login", msgAlreadyRegistered, "")
		return
	case errors.Is(err, auth.ErrMissingCredentials):
		h.metrics.AuthAttempt("register", "missing_fields")
		h.flashRedirect(w, r, "/register", msgMissingFields, "error")
		return
	case err != nil:
		h.serverError(w, r, err, "register")
		return
	}

	h.metrics.AuthAttempt("register", "ok")
	session.FromContext(r.Context()).Login(id.UserID)
	h.log(r).WithField("user_id", id.UserID).Info("user registered")
	h.publish(r, events.UserRegistered(GetCorrelationID(r.Context()), events.UserRegisteredPayload{
		UserID:    id.UserID,
		Email:     id.Email,
		Timestamp: nowUTC(),
	}))
	h.redirect(w, r, homeWithEmail(id.Email))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	session.FromContext(r.Context()).Logout()
	h.redirect(w, r, "/")
}
