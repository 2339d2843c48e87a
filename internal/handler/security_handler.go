package handler

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"gatelog/internal/entity"
	"gatelog/internal/export"
	"gatelog/internal/middleware"
	"gatelog/internal/repository"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SecurityHandler serves the audit views: full filterable registers of
// visits and trucks, record editing, deletion and spreadsheet export.
type SecurityHandler struct {
	visits   *repository.VisitRepository
	trucks   *repository.TruckRepository
	lookups  *repository.LookupRepository
	sessions *middleware.SessionManager
	logger   *zap.Logger

	visitListTmpl  *template.Template
	visitEditTmpl  *template.Template
	truckListTmpl  *template.Template
	truckEditTmpl  *template.Template
}

func NewSecurityHandler(visits *repository.VisitRepository, trucks *repository.TruckRepository, lookups *repository.LookupRepository, sessions *middleware.SessionManager, logger *zap.Logger) *SecurityHandler {
	return &SecurityHandler{
		visits:        visits,
		trucks:        trucks,
		lookups:       lookups,
		sessions:      sessions,
		logger:        logger,
		visitListTmpl: parseTemplates("security_visits.html"),
		visitEditTmpl: parseTemplates("security_visit_edit.html"),
		truckListTmpl: parseTemplates("security_trucks.html"),
		truckEditTmpl: parseTemplates("security_truck_edit.html"),
	}
}

func visitFilterFromQuery(r *http.Request) entity.VisitFilter {
	q := r.URL.Query()
	return entity.VisitFilter{
		DateFrom:   q.Get("date_from"),
		DateTo:     q.Get("date_to"),
		Host:       q.Get("host"),
		ObjectName: q.Get("object_name"),
		GuestName:  q.Get("guest_name"),
	}
}

func truckFilterFromQuery(r *http.Request) entity.TruckFilter {
	q := r.URL.Query()
	return entity.TruckFilter{
		DateFrom:    q.Get("date_from"),
		DateTo:      q.Get("date_to"),
		Plate:       q.Get("plate"),
		Destination: q.Get("destination"),
	}
}

func (h *SecurityHandler) VisitList(w http.ResponseWriter, r *http.Request) {
	filter := visitFilterFromQuery(r)
	rows, err := h.visits.ListFiltered(r.Context(), filter)
	if err != nil {
		h.logger.Error("load visit register", zap.Error(err))
		http.Error(w, "Loading visits failed", http.StatusInternalServerError)
		return
	}

	data := pageData(w, r, h.sessions, "Visit register")
	data["Rows"] = rows
	data["Filters"] = filter
	render(w, h.logger, h.visitListTmpl, "security_visits.html", data)
}

func (h *SecurityHandler) VisitExport(w http.ResponseWriter, r *http.Request) {
	rows, err := h.visits.ListFiltered(r.Context(), visitFilterFromQuery(r))
	if err != nil {
		h.logger.Error("load visit export", zap.Error(err))
		http.Error(w, "Loading visits failed", http.StatusInternalServerError)
		return
	}

	f, err := export.VisitsWorkbook(rows)
	if err != nil {
		h.logger.Error("build visit workbook", zap.Error(err))
		http.Error(w, "Building the export failed", http.StatusInternalServerError)
		return
	}

	h.sendWorkbook(w, f, fmt.Sprintf("visits_%s.xlsx", time.Now().Format(entity.DateLayout)))
}

func (h *SecurityHandler) VisitEditPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		renderNotFound(w, h.logger)
		return
	}

	visit, err := h.visits.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		renderNotFound(w, h.logger)
		return
	}
	if err != nil {
		h.logger.Error("load visit", zap.Int("id", id), zap.Error(err))
		http.Error(w, "Loading the visit failed", http.StatusInternalServerError)
		return
	}

	employees, _ := h.lookups.Values(r.Context(), entity.LookupEmployee)
	objects, _ := h.lookups.Values(r.Context(), entity.LookupObject)

	data := pageData(w, r, h.sessions, "Edit visit")
	data["Visit"] = visit
	data["Employees"] = employees
	data["Objects"] = objects
	render(w, h.logger, h.visitEditTmpl, "security_visit_edit.html", data)
}

func (h *SecurityHandler) VisitEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		renderNotFound(w, h.logger)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form submission", http.StatusBadRequest)
		return
	}

	visit := entity.Visit{
		ID:             id,
		ArrivalDate:    formStr(r, "arrival_date"),
		ExpectedTime:   optStr(r, "expected_time"),
		HostEmployee:   formStr(r, "host_employee"),
		GuestName:      formStr(r, "guest_name"),
		ObjectName:     formStr(r, "object_name"),
		Phone:          optStr(r, "phone"),
		DocumentNumber: optStr(r, "document_number"),
		VehiclePlate:   optStr(r, "vehicle_plate"),
		PersonsCount:   optInt(r, "persons_count"),
		Note:           optStr(r, "note"),
		EntryTime:      optStr(r, "entry_time"),
		ExitTime:       optStr(r, "exit_time"),
	}

	err := h.visits.Update(r.Context(), visit)
	if errors.Is(err, repository.ErrNotFound) {
		renderNotFound(w, h.logger)
		return
	}
	if err != nil {
		h.logger.Error("update visit", zap.Int("id", id), zap.Error(err))
		h.sessions.AddFlash(w, r, "danger", "Saving the visit failed.")
	}
	http.Redirect(w, r, "/security/visits", http.StatusSeeOther)
}

func (h *SecurityHandler) VisitDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		renderNotFound(w, h.logger)
		return
	}

	if err := h.visits.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete visit", zap.Int("id", id), zap.Error(err))
		h.sessions.AddFlash(w, r, "danger", "Deleting the visit failed.")
	}
	http.Redirect(w, r, "/security/visits", http.StatusSeeOther)
}

func (h *SecurityHandler) TruckList(w http.ResponseWriter, r *http.Request) {
	filter := truckFilterFromQuery(r)
	rows, err := h.trucks.ListFiltered(r.Context(), filter)
	if err != nil {
		h.logger.Error("load truck register", zap.Error(err))
		http.Error(w, "Loading trucks failed", http.StatusInternalServerError)
		return
	}

	data := pageData(w, r, h.sessions, "Truck register")
	data["Rows"] = rows
	data["Filters"] = filter
	render(w, h.logger, h.truckListTmpl, "security_trucks.html", data)
}

func (h *SecurityHandler) TruckExport(w http.ResponseWriter, r *http.Request) {
	rows, err := h.trucks.ListFiltered(r.Context(), truckFilterFromQuery(r))
	if err != nil {
		h.logger.Error("load truck export", zap.Error(err))
		http.Error(w, "Loading trucks failed", http.StatusInternalServerError)
		return
	}

	f, err := export.TrucksWorkbook(rows)
	if err != nil {
		h.logger.Error("build truck workbook", zap.Error(err))
		http.Error(w, "Building the export failed", http.StatusInternalServerError)
		return
	}

	h.sendWorkbook(w, f, fmt.Sprintf("trucks_%s.xlsx", time.Now().Format(entity.DateLayout)))
}

func (h *SecurityHandler) sendWorkbook(w http.ResponseWriter, f *excelize.File, filename string) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(w); err != nil {
		h.logger.Error("write workbook", zap.String("filename", filename), zap.Error(err))
	}
}

func (h *SecurityHandler) TruckEditPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		renderNotFound(w, h.logger)
		return
	}

	truck, err := h.trucks.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		renderNotFound(w, h.logger)
		return
	}
	if err != nil {
		h.logger.Error("load truck", zap.Int("id", id), zap.Error(err))
		http.Error(w, "Loading the truck failed", http.StatusInternalServerError)
		return
	}

	destinations, _ := h.lookups.Values(r.Context(), entity.LookupDestination)

	data := pageData(w, r, h.sessions, "Edit truck")
	data["Truck"] = truck
	data["Destinations"] = destinations
	render(w, h.logger, h.truckEditTmpl, "security_truck_edit.html", data)
}

func (h *SecurityHandler) TruckEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		renderNotFound(w, h.logger)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form submission", http.StatusBadRequest)
		return
	}

	truck := entity.Truck{
		ID:               id,
		DriverName:       formStr(r, "driver_name"),
		DriverDocument:   optStr(r, "driver_document"),
		CodriverName:     optStr(r, "codriver_name"),
		CodriverDocument: optStr(r, "codriver_document"),
		DriverPhone:      optStr(r, "driver_phone"),
		Plate:            formStr(r, "plate"),
		Destination:      formStr(r, "destination"),
		ArrivalDate:      formStr(r, "arrival_date"),
		ArrivalTime:      formStr(r, "arrival_time"),
		DepartureDatetime: optStr(r, "departure_datetime"),
	}

	err := h.trucks.Update(r.Context(), truck)
	if errors.Is(err, repository.ErrNotFound) {
		renderNotFound(w, h.logger)
		return
	}
	if err != nil {
		h.logger.Error("update truck", zap.Int("id", id), zap.Error(err))
		h.sessions.AddFlash(w, r, "danger", "Saving the truck failed.")
	}
	http.Redirect(w, r, "/security/trucks", http.StatusSeeOther)
}

func (h *SecurityHandler) TruckDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		renderNotFound(w, h.logger)
		return
	}

	if err := h.trucks.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete truck", zap.Int("id", id), zap.Error(err))
		h.sessions.AddFlash(w, r, "danger", "Deleting the truck failed.")
	}
	http.Redirect(w, r, "/security/trucks", http.StatusSeeOther)
}
