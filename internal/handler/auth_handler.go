package handler

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"gatelog/internal/middleware"
	"gatelog/internal/repository"
)

type AuthHandler struct {
	users    *repository.UserRepository
	sessions *middleware.SessionManager
	logger   *zap.Logger

	loginTmpl    *template.Template
	profileTmpl  *template.Template
	noAccessTmpl *template.Template
}

func NewAuthHandler(users *repository.UserRepository, sessions *middleware.SessionManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:        users,
		sessions:     sessions,
		logger:       logger,
		loginTmpl:    parseTemplates("login.html"),
		profileTmpl:  parseTemplates("profile.html"),
		noAccessTmpl: parseTemplates("no_access.html"),
	}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.sessions.CurrentUser(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, "", "")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form submission", http.StatusBadRequest)
		return
	}

	email := strings.ToLower(formStr(r, "email"))
	password := r.FormValue("password")

	user, err := h.users.Authenticate(r.Context(), email, password)
	if err != nil {
		if !errors.Is(err, repository.ErrInvalidCredentials) {
			h.logger.Error("login lookup", zap.String("email", email), zap.Error(err))
		}
		h.renderLogin(w, r, email, "Wrong email or password.")
		return
	}

	if err := h.sessions.SignIn(w, r, user); err != nil {
		h.logger.Error("save session", zap.Error(err))
		h.renderLogin(w, r, email, "Signing in failed, try again.")
		return
	}

	next := r.FormValue("next")
	if !strings.HasPrefix(next, "/") {
		next = "/"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, email, errMsg string) {
	render(w, h.logger, h.loginTmpl, "login.html", map[string]any{
		"Title": "Sign in",
		"Error": errMsg,
		"Email": email,
		"Next":  r.URL.Query().Get("next"),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.SignOut(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) NoAccess(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusForbidden)
	render(w, h.logger, h.noAccessTmpl, "no_access.html", map[string]any{
		"Title": "No access",
	})
}

func (h *AuthHandler) ProfilePage(w http.ResponseWriter, r *http.Request) {
	render(w, h.logger, h.profileTmpl, "profile.html",
		pageData(w, r, h.sessions, "Profile"))
}

// Profile changes the signed-in user's own password.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form submission", http.StatusBadRequest)
		return
	}

	oldPw := r.FormValue("old_password")
	newPw := r.FormValue("new_password")
	repeatPw := r.FormValue("repeat_password")

	fail := func(msg string) {
		data := pageData(w, r, h.sessions, "Profile")
		data["Error"] = msg
		render(w, h.logger, h.profileTmpl, "profile.html", data)
	}

	if newPw == "" || newPw != repeatPw {
		fail("New passwords do not match.")
		return
	}

	err := h.users.ChangePassword(r.Context(), user.Email, oldPw, newPw)
	if errors.Is(err, repository.ErrInvalidCredentials) {
		fail("Current password is not correct.")
		return
	}
	if err != nil {
		h.logger.Error("change password", zap.String("email", user.Email), zap.Error(err))
		fail("Changing the password failed.")
		return
	}

	data := pageData(w, r, h.sessions, "Profile")
	data["Message"] = "Password changed."
	render(w, h.logger, h.profileTmpl, "profile.html", data)
}
