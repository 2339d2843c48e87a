package middleware

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"

	"gatelog/internal/entity"
)

const sessionName = "gatelog-session"

// SessionUser is everything the gate logic ever reads from a session.
type SessionUser struct {
	Email    string
	Role     entity.Role
	FullName string
}

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string // "success", "warning", "danger"
	Message  string
}

func init() {
	gob.Register(Flash{})
}

// SessionManager wraps the signed cookie store. Handlers go through it
// instead of touching gorilla directly, so the session only ever
// carries {email, role, display name} plus flashes.
type SessionManager struct {
	store *sessions.CookieStore
}

func NewSessionManager(secret string) *SessionManager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store}
}

func (m *SessionManager) CurrentUser(r *http.Request) (SessionUser, bool) {
	session, _ := m.store.Get(r, sessionName)

	email, emailOk := session.Values["email"].(string)
	roleStr, roleOk := session.Values["role"].(string)
	if !emailOk || email == "" || !roleOk {
		return SessionUser{}, false
	}
	role, ok := entity.ParseRole(roleStr)
	if !ok {
		return SessionUser{}, false
	}

	fullName, _ := session.Values["full_name"].(string)
	return SessionUser{Email: email, Role: role, FullName: fullName}, true
}

func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u entity.User) error {
	session, _ := m.store.Get(r, sessionName)
	session.Values["email"] = u.Email
	session.Values["role"] = string(u.Role)
	session.Values["full_name"] = u.DisplayName()
	return session.Save(r, w)
}

func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) {
	session, _ := m.store.Get(r, sessionName)
	session.Options.MaxAge = -1
	session.Save(r, w)
}

func (m *SessionManager) AddFlash(w http.ResponseWriter, r *http.Request, category, message string) {
	session, _ := m.store.Get(r, sessionName)
	session.AddFlash(Flash{Category: category, Message: message})
	session.Save(r, w)
}

// Flashes drains the pending flash messages.
func (m *SessionManager) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	session, _ := m.store.Get(r, sessionName)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	session.Save(r, w)

	flashes := make([]Flash, 0, len(raw))
	for _, f := range raw {
		if flash, ok := f.(Flash); ok {
			flashes = append(flashes, flash)
		}
	}
	return flashes
}
