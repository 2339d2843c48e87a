package handler

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"gatelog/internal/entity"
	"gatelog/internal/middleware"
	"gatelog/internal/repository"
	"gatelog/internal/schedule"
)

type VisitHandler struct {
	visits   *repository.VisitRepository
	lookups  *repository.LookupRepository
	sessions *middleware.SessionManager
	logger   *zap.Logger

	announceTmpl  *template.Template
	walkInTmpl    *template.Template
	gatehouseTmpl *template.Template
	mineTmpl      *template.Template
}

func NewVisitHandler(visits *repository.VisitRepository, lookups *repository.LookupRepository, sessions *middleware.SessionManager, logger *zap.Logger) *VisitHandler {
	return &VisitHandler{
		visits:        visits,
		lookups:       lookups,
		sessions:      sessions,
		logger:        logger,
		announceTmpl:  parseTemplates("visit_announce.html"),
		walkInTmpl:    parseTemplates("visit_walkin.html"),
		gatehouseTmpl: parseTemplates("visit_gatehouse.html"),
		mineTmpl:      parseTemplates("visits_mine.html"),
	}
}

func (h *VisitHandler) AnnouncePage(w http.ResponseWriter, r *http.Request) {
	data := pageData(w, r, h.sessions, "Announce a visit")
	h.addGuestFormLookups(w, r, data)
	render(w, h.logger, h.announceTmpl, "visit_announce.html", data)
}

// Announce creates one visit, or one per matching date when the
// recurring mode is selected. All rows of one submission are committed
// together or not at all.
func (h *VisitHandler) Announce(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form submission", http.StatusBadRequest)
		return
	}

	back := "/visits/announce"
	visit, ok := h.visitFromForm(w, r, user.Email, back)
	if !ok {
		return
	}

	dates := []string{visit.ArrivalDate}
	if r.FormValue("visit_mode") == "recurring" {
		var failed bool
		dates, failed = h.expandRecurring(w, r, visit.ArrivalDate, back)
		if failed {
			return
		}
	}

	count, err := h.visits.CreateBatch(r.Context(), visit, dates)
	if err != nil {
		h.logger.Error("create visits", zap.Int("dates", len(dates)), zap.Error(err))
		h.sessions.AddFlash(w, r, "danger", "Saving failed, no visits were created.")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	if count > 1 {
		h.sessions.AddFlash(w, r, "success",
			fmt.Sprintf("Created %d visits for guest %s.", count, visit.GuestName))
	} else {
		h.sessions.AddFlash(w, r, "success",
			fmt.Sprintf("Announcement saved for guest %s.", visit.GuestName))
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// expandRecurring parses the period fields and runs the date expansion.
// The second return is true when the caller should stop: validation
// failed and a flash redirect has been written.
func (h *VisitHandler) expandRecurring(w http.ResponseWriter, r *http.Request, arrivalDate, back string) ([]string, bool) {
	fail := func(msg string) ([]string, bool) {
		h.sessions.AddFlash(w, r, "danger", msg)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return nil, true
	}

	endStr := formStr(r, "date_end")
	if endStr == "" {
		return fail("You must enter an end date for the recurring period.")
	}

	start, err := time.Parse(entity.DateLayout, arrivalDate)
	if err != nil {
		return fail("The arrival date is not a valid date.")
	}
	end, err := time.Parse(entity.DateLayout, endStr)
	if err != nil {
		return fail("The end date is not a valid date.")
	}

	var days []int
	for _, d := range r.Form["days"] {
		n, err := strconv.Atoi(d)
		if err == nil && n >= 0 && n <= 6 {
			days = append(days, n)
		}
	}

	expanded, err := schedule.Expand(start, end, days)
	switch {
	case errors.Is(err, schedule.ErrEndBeforeStart):
		return fail("The end date cannot be before the start date.")
	case errors.Is(err, schedule.ErrRangeTooLong):
		return fail("The recurring period cannot be longer than one year.")
	case errors.Is(err, schedule.ErrNoMatchingDates):
		return fail("No date in the period matches the selected weekdays.")
	case err != nil:
		return fail("The recurring period could not be expanded.")
	}

	dates := make([]string, len(expanded))
	for i, d := range expanded {
		dates[i] = d.Format(entity.DateLayout)
	}
	return dates, false
}

func (h *VisitHandler) WalkInPage(w http.ResponseWriter, r *http.Request) {
	data := pageData(w, r, h.sessions, "Walk-in visit")
	h.addGuestFormLookups(w, r, data)
	render(w, h.logger, h.walkInTmpl, "visit_walkin.html", data)
}

// WalkIn records an unannounced guest; the entry is stamped immediately.
func (h *VisitHandler) WalkIn(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form submission", http.StatusBadRequest)
		return
	}

	back := "/visits/walk-in"
	visit, ok := h.visitFromForm(w, r, user.Email, back)
	if !ok {
		return
	}
	now := time.Now().Format(entity.TimestampLayout)
	visit.ExpectedTime = nil
	visit.EntryTime = &now

	if _, err := h.visits.Create(r.Context(), visit); err != nil {
		h.logger.Error("create walk-in visit", zap.Error(err))
		h.sessions.AddFlash(w, r, "danger", "Saving the entry failed.")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	h.sessions.AddFlash(w, r, "success",
		fmt.Sprintf("Entry recorded for guest %s.", visit.GuestName))
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// Gatehouse lists today's expected visitors that are still open.
func (h *VisitHandler) Gatehouse(w http.ResponseWriter, r *http.Request) {
	today := time.Now().Format(entity.DateLayout)
	rows, err := h.visits.OpenForDate(r.Context(), today)
	if err != nil {
		h.logger.Error("load gatehouse queue", zap.Error(err))
		http.Error(w, "Loading visits failed", http.StatusInternalServerError)
		return
	}

	data := pageData(w, r, h.sessions, "Gatehouse — today")
	data["Rows"] = rows
	render(w, h.logger, h.gatehouseTmpl, "visit_gatehouse.html", data)
}

func (h *VisitHandler) MarkEntry(w http.ResponseWriter, r *http.Request) {
	h.stamp(w, r, h.visits.MarkEntry)
}

func (h *VisitHandler) MarkExit(w http.ResponseWriter, r *http.Request) {
	// No check that an entry was recorded first; see VisitRepository.MarkExit.
	h.stamp(w, r, h.visits.MarkExit)
}

func (h *VisitHandler) stamp(w http.ResponseWriter, r *http.Request, mark func(ctx context.Context, id int, stamp string) error) {
	id, ok := pathID(r)
	if !ok {
		renderNotFound(w, h.logger)
		return
	}

	now := time.Now().Format(entity.TimestampLayout)
	err := mark(r.Context(), id, now)
	if errors.Is(err, repository.ErrNotFound) {
		renderNotFound(w, h.logger)
		return
	}
	if err != nil {
		h.logger.Error("stamp visit", zap.Int("id", id), zap.Error(err))
		http.Error(w, "Recording the time failed", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/visits/gatehouse", http.StatusSeeOther)
}

// Mine lists the current user's own announcements.
func (h *VisitHandler) Mine(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	dateFrom := r.URL.Query().Get("date_from")
	dateTo := r.URL.Query().Get("date_to")

	rows, err := h.visits.ListByCreator(r.Context(), user.Email, dateFrom, dateTo)
	if err != nil {
		h.logger.Error("load own announcements", zap.Error(err))
		http.Error(w, "Loading visits failed", http.StatusInternalServerError)
		return
	}

	data := pageData(w, r, h.sessions, "My announcements")
	data["Rows"] = rows
	data["Filters"] = map[string]string{"date_from": dateFrom, "date_to": dateTo}
	render(w, h.logger, h.mineTmpl, "visits_mine.html", data)
}

// Cancel sets the terminal cancelled status, creator or admin only.
func (h *VisitHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		renderNotFound(w, h.logger)
		return
	}

	err := h.visits.Cancel(r.Context(), id, user.Email, user.Role)
	h.finishOwnMutation(w, r, err, "Visit cancelled.",
		"You are not allowed to cancel this visit.")
}

// Reschedule moves the visit to a new date, creator or admin only.
func (h *VisitHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		renderNotFound(w, h.logger)
		return
	}

	newDate := formStr(r, "new_date")
	if _, err := time.Parse(entity.DateLayout, newDate); err != nil {
		h.sessions.AddFlash(w, r, "warning", "You must pick a valid new date.")
		http.Redirect(w, r, "/visits/mine", http.StatusSeeOther)
		return
	}

	err := h.visits.Reschedule(r.Context(), id, newDate, user.Email, user.Role)
	h.finishOwnMutation(w, r,
		err,
		fmt.Sprintf("Visit date changed to %s.", dmy(newDate)),
		"You are not allowed to change this visit.")
}

func (h *VisitHandler) finishOwnMutation(w http.ResponseWriter, r *http.Request, err error, success, rejected string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.sessions.AddFlash(w, r, "danger", "Visit does not exist.")
	case errors.Is(err, repository.ErrNotOwner):
		h.sessions.AddFlash(w, r, "danger", rejected)
	case err != nil:
		h.logger.Error("visit mutation", zap.Error(err))
		h.sessions.AddFlash(w, r, "danger", "Updating the visit failed.")
	default:
		h.sessions.AddFlash(w, r, "success", success)
	}
	http.Redirect(w, r, "/visits/mine", http.StatusSeeOther)
}

// visitFromForm reads the shared announcement/walk-in fields. On a
// missing required field it flashes and redirects, returning ok=false.
func (h *VisitHandler) visitFromForm(w http.ResponseWriter, r *http.Request, creator, back string) (entity.Visit, bool) {
	visit := entity.Visit{
		CreatedBy:      creator,
		ArrivalDate:    formStr(r, "arrival_date"),
		ExpectedTime:   optStr(r, "expected_time"),
		HostEmployee:   formStr(r, "host_employee"),
		Phone:          optStr(r, "phone"),
		ObjectName:     formStr(r, "object_name"),
		GuestName:      formStr(r, "guest_name"),
		DocumentNumber: optStr(r, "document_number"),
		VehiclePlate:   optStr(r, "vehicle_plate"),
		Note:           optStr(r, "note"),
		PersonsCount:   optInt(r, "persons_count"),
	}

	if visit.ArrivalDate == "" || visit.HostEmployee == "" || visit.ObjectName == "" || visit.GuestName == "" {
		h.sessions.AddFlash(w, r, "danger",
			"Arrival date, host, object and guest name are required.")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return entity.Visit{}, false
	}
	if _, err := time.Parse(entity.DateLayout, visit.ArrivalDate); err != nil {
		h.sessions.AddFlash(w, r, "danger", "The arrival date is not a valid date.")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return entity.Visit{}, false
	}
	return visit, true
}

// addGuestFormLookups fills the host and object dropdowns.
func (h *VisitHandler) addGuestFormLookups(w http.ResponseWriter, r *http.Request, data map[string]any) {
	employees, err := h.lookups.Values(r.Context(), entity.LookupEmployee)
	if err != nil {
		h.logger.Error("load employee lookups", zap.Error(err))
	}
	objects, err := h.lookups.Values(r.Context(), entity.LookupObject)
	if err != nil {
		h.logger.Error("load object lookups", zap.Error(err))
	}
	data["Employees"] = employees
	data["Objects"] = objects
}
