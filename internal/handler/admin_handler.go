package handler

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"gatelog/internal/entity"
	"gatelog/internal/middleware"
	"gatelog/internal/repository"
)

// LookupForm describes which reference lists feed one form's dropdowns;
// the admin lookup screen is organized around these.
type LookupForm struct {
	Code   string
	Label  string
	Fields []LookupField
}

type LookupField struct {
	Code  entity.LookupType
	Label string
}

var lookupForms = []LookupForm{
	{
		Code:  "visit",
		Label: "Visit announcement",
		Fields: []LookupField{
			{Code: entity.LookupEmployee, Label: "Host employee"},
			{Code: entity.LookupObject, Label: "Object"},
		},
	},
	{
		Code:  "truck",
		Label: "Truck entry",
		Fields: []LookupField{
			{Code: entity.LookupDestination, Label: "Truck destination"},
		},
	},
}

type AdminHandler struct {
	users    *repository.UserRepository
	lookups  *repository.LookupRepository
	sessions *middleware.SessionManager
	logger   *zap.Logger

	usersTmpl   *template.Template
	lookupsTmpl *template.Template
}

func NewAdminHandler(users *repository.UserRepository, lookups *repository.LookupRepository, sessions *middleware.SessionManager, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		users:       users,
		lookups:     lookups,
		sessions:    sessions,
		logger:      logger,
		usersTmpl:   parseTemplates("admin_users.html"),
		lookupsTmpl: parseTemplates("admin_lookups.html"),
	}
}

func (h *AdminHandler) UsersPage(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.logger.Error("list users", zap.Error(err))
		http.Error(w, "Loading users failed", http.StatusInternalServerError)
		return
	}

	data := pageData(w, r, h.sessions, "Users")
	data["Users"] = users
	data["Roles"] = entity.AllRoles
	render(w, h.logger, h.usersTmpl, "admin_users.html", data)
}

// Users applies the per-row role/active/password edits and optionally
// adds one new account, then lands back on the list.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form submission", http.StatusBadRequest)
		return
	}

	users, err := h.users.List(r.Context())
	if err != nil {
		h.logger.Error("list users", zap.Error(err))
		http.Error(w, "Loading users failed", http.StatusInternalServerError)
		return
	}

	for _, u := range users {
		suffix := strconv.Itoa(u.ID)

		if role, ok := entity.ParseRole(r.FormValue("role_" + suffix)); ok {
			active := r.FormValue("active_"+suffix) == "on"
			if err := h.users.UpdateRoleActive(r.Context(), u.ID, role, active); err != nil {
				h.logger.Error("update user", zap.Int("id", u.ID), zap.Error(err))
			}
		}

		if pw := formStr(r, "password_"+suffix); pw != "" {
			if err := h.users.SetPassword(r.Context(), u.ID, pw); err != nil {
				h.logger.Error("set user password", zap.Int("id", u.ID), zap.Error(err))
			}
		}
	}

	h.addUserFromForm(w, r)
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

func (h *AdminHandler) addUserFromForm(w http.ResponseWriter, r *http.Request) {
	email := formStr(r, "email_new")
	password := formStr(r, "password_new")
	if email == "" || password == "" {
		return
	}

	fullName := formStr(r, "full_name_new")
	role, ok := entity.ParseRole(r.FormValue("role_new"))
	if !ok {
		role = entity.RoleEmployee
	}

	_, err := h.users.Create(r.Context(), email, fullName, password, role)
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		h.sessions.AddFlash(w, r, "danger",
			fmt.Sprintf("Email %s is already registered.", email))
	case err != nil:
		h.logger.Error("create user", zap.String("email", email), zap.Error(err))
		h.sessions.AddFlash(w, r, "danger", "Creating the account failed.")
	default:
		h.sessions.AddFlash(w, r, "success",
			fmt.Sprintf("Account %s created.", email))
	}
}

// Lookups manages the dropdown reference lists; values are append-only
// through this screen.
func (h *AdminHandler) Lookups(w http.ResponseWriter, r *http.Request) {
	formCode := r.URL.Query().Get("form")
	fieldCode := r.URL.Query().Get("field")

	form := lookupForms[0]
	for _, f := range lookupForms {
		if f.Code == formCode {
			form = f
			break
		}
	}

	var field *LookupField
	for i := range form.Fields {
		if string(form.Fields[i].Code) == fieldCode {
			field = &form.Fields[i]
			break
		}
	}

	if r.Method == http.MethodPost && field != nil {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad form submission", http.StatusBadRequest)
			return
		}
		if value := formStr(r, "new_value"); value != "" {
			if err := h.lookups.Add(r.Context(), field.Code, value); err != nil {
				h.logger.Error("add lookup value", zap.String("type", string(field.Code)), zap.Error(err))
				h.sessions.AddFlash(w, r, "danger", "Adding the value failed.")
			}
		}
		http.Redirect(w, r, "/admin/lookups?form="+url.QueryEscape(form.Code)+
			"&field="+url.QueryEscape(fieldCode), http.StatusSeeOther)
		return
	}

	var values []entity.LookupValue
	if field != nil {
		var err error
		values, err = h.lookups.Values(r.Context(), field.Code)
		if err != nil {
			h.logger.Error("load lookup values", zap.Error(err))
		}
	}

	data := pageData(w, r, h.sessions, "Dropdown lists")
	data["Forms"] = lookupForms
	data["Form"] = form
	data["Field"] = field
	data["Rows"] = values
	render(w, h.logger, h.lookupsTmpl, "admin_lookups.html", data)
}
