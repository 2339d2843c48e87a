package handler

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"gatelog/internal/middleware"
	"gatelog/internal/templates"
)

var funcs = template.FuncMap{
	"dmy": dmy,
}

// dmy shows stored dates ("2006-01-02") and timestamps
// ("2006-01-02 15:04:05") in day.month.year display form. Anything it
// cannot recognize passes through untouched.
func dmy(v any) string {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case *string:
		if t == nil {
			return ""
		}
		s = *t
	default:
		return ""
	}

	if len(s) >= 10 && s[4] == '-' && s[7] == '-' {
		out := s[8:10] + "." + s[5:7] + "." + s[0:4] + "."
		if len(s) >= 16 && s[10] == ' ' {
			out += " " + s[11:16]
		}
		return out
	}
	return s
}

func parseTemplates(files ...string) *template.Template {
	return template.Must(template.New(files[0]).Funcs(funcs).ParseFS(templates.FS, files...))
}

// pageData builds the fields every page shares; callers add their own.
func pageData(w http.ResponseWriter, r *http.Request, sessions *middleware.SessionManager, title string) map[string]any {
	user, _ := middleware.UserFromContext(r.Context())
	return map[string]any{
		"Title":     title,
		"User":      user,
		"Flashes":   sessions.Flashes(w, r),
		"DateToday": time.Now().Format("02.01.2006."),
	}
}

func render(w http.ResponseWriter, logger *zap.Logger, tmpl *template.Template, name string, data any) {
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		logger.Error("render template", zap.String("template", name), zap.Error(err))
		http.Error(w, "Page could not be rendered", http.StatusInternalServerError)
	}
}

var notFoundTmpl = parseTemplates("not_found.html")

func renderNotFound(w http.ResponseWriter, logger *zap.Logger) {
	w.WriteHeader(http.StatusNotFound)
	render(w, logger, notFoundTmpl, "not_found.html", nil)
}

// pathID reads the {id} route segment.
func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	return id, err == nil && id > 0
}

func formStr(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}

// optStr turns an empty form field into NULL.
func optStr(r *http.Request, name string) *string {
	v := formStr(r, name)
	if v == "" {
		return nil
	}
	return &v
}

func optInt(r *http.Request, name string) *int {
	v := formStr(r, name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}
