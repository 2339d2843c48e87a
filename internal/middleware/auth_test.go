package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatelog/internal/entity"
)

func TestAllowed(t *testing.T) {
	admins := []entity.Role{entity.RoleAdmin}
	staff := []entity.Role{entity.RoleAdmin, entity.RoleGatehouse, entity.RoleSecurityChief}

	assert.True(t, Allowed(entity.RoleAdmin, admins))
	assert.False(t, Allowed(entity.RoleEmployee, admins))
	assert.True(t, Allowed(entity.RoleGatehouse, staff))
	assert.False(t, Allowed(entity.RoleEmployee, staff))

	// Empty required set: any authenticated role passes.
	assert.True(t, Allowed(entity.RoleEmployee, nil))
	assert.True(t, Allowed(entity.RoleGatehouse, []entity.Role{}))
}

func gateThrough(t *testing.T, m *SessionManager, signIn *entity.User, path string, required ...entity.Role) *httptest.ResponseRecorder {
	t.Helper()

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok, "gated handler must see the user in context")
		w.Write([]byte(user.Email))
	})
	handler := m.RequireRoles(required...)(final)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if signIn != nil {
		// Run a sign-in first and copy the session cookie over.
		rec := httptest.NewRecorder()
		require.NoError(t, m.SignIn(rec, httptest.NewRequest(http.MethodGet, "/", nil), *signIn))
		for _, c := range rec.Result().Cookies() {
			req.AddCookie(c)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRequireRolesRedirectsAnonymousToLogin(t *testing.T) {
	m := NewSessionManager("test-secret")

	rec := gateThrough(t, m, nil, "/security/visits", entity.RoleAdmin)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Fsecurity%2Fvisits", rec.Header().Get("Location"))
}

func TestRequireRolesWrongRoleSoftRedirect(t *testing.T) {
	m := NewSessionManager("test-secret")
	user := entity.User{Email: "emp@x", Role: entity.RoleEmployee, FullName: "Emp"}

	rec := gateThrough(t, m, &user, "/admin/users", entity.RoleAdmin)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/no-access", rec.Header().Get("Location"))
}

func TestRequireRolesPassesMatchingRole(t *testing.T) {
	m := NewSessionManager("test-secret")
	user := entity.User{Email: "chief@x", Role: entity.RoleSecurityChief}

	rec := gateThrough(t, m, &user, "/security/visits", entity.RoleAdmin, entity.RoleSecurityChief)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "chief@x", rec.Body.String())
}

func TestRequireRolesEmptySetAnyAuthenticated(t *testing.T) {
	m := NewSessionManager("test-secret")
	user := entity.User{Email: "emp@x", Role: entity.RoleEmployee}

	rec := gateThrough(t, m, &user, "/visits/mine")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionRoundTrip(t *testing.T) {
	m := NewSessionManager("test-secret")

	rec := httptest.NewRecorder()
	err := m.SignIn(rec, httptest.NewRequest(http.MethodGet, "/", nil), entity.User{
		Email: "a@x", Role: entity.RoleAdmin, FullName: "Admin A",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	user, ok := m.CurrentUser(req)
	require.True(t, ok)
	assert.Equal(t, "a@x", user.Email)
	assert.Equal(t, entity.RoleAdmin, user.Role)
	assert.Equal(t, "Admin A", user.FullName)
}
