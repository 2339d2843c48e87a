package handler

import (
	"net/http"

	"go.uber.org/zap"

	"gatelog/internal/entity"
	"gatelog/internal/middleware"
)

type Handlers struct {
	Auth     *AuthHandler
	Home     *HomeHandler
	Visits   *VisitHandler
	Trucks   *TruckHandler
	Security *SecurityHandler
	Admin    *AdminHandler
}

// NewRouter wires every route behind its role gate. The allowed-role
// sets are fixed here, in one place.
func NewRouter(sessions *middleware.SessionManager, logger *zap.Logger, h Handlers) http.Handler {
	anyRole := sessions.RequireRoles()
	admin := sessions.RequireRoles(entity.RoleAdmin)
	announcers := sessions.RequireRoles(entity.RoleAdmin, entity.RoleEmployee, entity.RoleSecurityChief)
	gateStaff := sessions.RequireRoles(entity.RoleAdmin, entity.RoleGatehouse, entity.RoleSecurityChief)
	auditors := sessions.RequireRoles(entity.RoleAdmin, entity.RoleSecurityChief)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /login", h.Auth.LoginPage)
	mux.HandleFunc("POST /login", h.Auth.Login)
	mux.HandleFunc("GET /logout", h.Auth.Logout)
	mux.HandleFunc("GET /no-access", h.Auth.NoAccess)

	mux.Handle("GET /{$}", anyRole(http.HandlerFunc(h.Home.Index)))
	mux.Handle("GET /profile", anyRole(http.HandlerFunc(h.Auth.ProfilePage)))
	mux.Handle("POST /profile", anyRole(http.HandlerFunc(h.Auth.Profile)))

	mux.Handle("GET /visits/announce", announcers(http.HandlerFunc(h.Visits.AnnouncePage)))
	mux.Handle("POST /visits/announce", announcers(http.HandlerFunc(h.Visits.Announce)))
	mux.Handle("GET /visits/walk-in", gateStaff(http.HandlerFunc(h.Visits.WalkInPage)))
	mux.Handle("POST /visits/walk-in", gateStaff(http.HandlerFunc(h.Visits.WalkIn)))
	mux.Handle("GET /visits/gatehouse", gateStaff(http.HandlerFunc(h.Visits.Gatehouse)))
	mux.Handle("POST /visits/{id}/entry", gateStaff(http.HandlerFunc(h.Visits.MarkEntry)))
	mux.Handle("POST /visits/{id}/exit", gateStaff(http.HandlerFunc(h.Visits.MarkExit)))
	mux.Handle("GET /visits/mine", anyRole(http.HandlerFunc(h.Visits.Mine)))
	mux.Handle("POST /visits/{id}/cancel", anyRole(http.HandlerFunc(h.Visits.Cancel)))
	mux.Handle("POST /visits/{id}/date", anyRole(http.HandlerFunc(h.Visits.Reschedule)))

	mux.Handle("GET /trucks/entry", gateStaff(http.HandlerFunc(h.Trucks.EntryPage)))
	mux.Handle("POST /trucks/entry", gateStaff(http.HandlerFunc(h.Trucks.Entry)))
	mux.Handle("GET /trucks/gatehouse", gateStaff(http.HandlerFunc(h.Trucks.Gatehouse)))
	mux.Handle("POST /trucks/{id}/departure", gateStaff(http.HandlerFunc(h.Trucks.Departure)))

	mux.Handle("GET /security/visits", auditors(http.HandlerFunc(h.Security.VisitList)))
	mux.Handle("GET /security/visits/export", admin(http.HandlerFunc(h.Security.VisitExport)))
	mux.Handle("GET /security/visits/{id}/edit", admin(http.HandlerFunc(h.Security.VisitEditPage)))
	mux.Handle("POST /security/visits/{id}/edit", admin(http.HandlerFunc(h.Security.VisitEdit)))
	mux.Handle("POST /security/visits/{id}/delete", auditors(http.HandlerFunc(h.Security.VisitDelete)))
	mux.Handle("GET /security/trucks", auditors(http.HandlerFunc(h.Security.TruckList)))
	mux.Handle("GET /security/trucks/export", auditors(http.HandlerFunc(h.Security.TruckExport)))
	mux.Handle("GET /security/trucks/{id}/edit", admin(http.HandlerFunc(h.Security.TruckEditPage)))
	mux.Handle("POST /security/trucks/{id}/edit", admin(http.HandlerFunc(h.Security.TruckEdit)))
	mux.Handle("POST /security/trucks/{id}/delete", admin(http.HandlerFunc(h.Security.TruckDelete)))

	mux.Handle("GET /admin/users", admin(http.HandlerFunc(h.Admin.UsersPage)))
	mux.Handle("POST /admin/users", admin(http.HandlerFunc(h.Admin.Users)))
	mux.Handle("GET /admin/lookups", admin(http.HandlerFunc(h.Admin.Lookups)))
	mux.Handle("POST /admin/lookups", admin(http.HandlerFunc(h.Admin.Lookups)))

	return middleware.RequestLogger(logger)(mux)
}
