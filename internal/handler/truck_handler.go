package handler

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"gatelog/internal/entity"
	"gatelog/internal/middleware"
	"gatelog/internal/repository"
)

type TruckHandler struct {
	trucks   *repository.TruckRepository
	lookups  *repository.LookupRepository
	sessions *middleware.SessionManager
	logger   *zap.Logger

	entryTmpl     *template.Template
	gatehouseTmpl *template.Template
}

func NewTruckHandler(trucks *repository.TruckRepository, lookups *repository.LookupRepository, sessions *middleware.SessionManager, logger *zap.Logger) *TruckHandler {
	return &TruckHandler{
		trucks:        trucks,
		lookups:       lookups,
		sessions:      sessions,
		logger:        logger,
		entryTmpl:     parseTemplates("truck_entry.html"),
		gatehouseTmpl: parseTemplates("truck_gatehouse.html"),
	}
}

func (h *TruckHandler) EntryPage(w http.ResponseWriter, r *http.Request) {
	destinations, err := h.lookups.Values(r.Context(), entity.LookupDestination)
	if err != nil {
		h.logger.Error("load destination lookups", zap.Error(err))
	}

	data := pageData(w, r, h.sessions, "Truck entry")
	data["Destinations"] = destinations
	render(w, h.logger, h.entryTmpl, "truck_entry.html", data)
}

// Entry records a truck arriving at the gate; date and time are taken
// from the clock, not the form.
func (h *TruckHandler) Entry(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form submission", http.StatusBadRequest)
		return
	}

	now := time.Now()
	truck := entity.Truck{
		CreatedBy:        user.Email,
		DriverName:       formStr(r, "driver_name"),
		DriverDocument:   optStr(r, "driver_document"),
		CodriverName:     optStr(r, "codriver_name"),
		CodriverDocument: optStr(r, "codriver_document"),
		DriverPhone:      optStr(r, "driver_phone"),
		Plate:            formStr(r, "plate"),
		Destination:      formStr(r, "destination"),
		ArrivalDate:      now.Format(entity.DateLayout),
		ArrivalTime:      now.Format(entity.ClockLayout),
	}

	if truck.DriverName == "" || truck.Plate == "" || truck.Destination == "" {
		h.sessions.AddFlash(w, r, "danger", "Driver name, plate and destination are required.")
		http.Redirect(w, r, "/trucks/entry", http.StatusSeeOther)
		return
	}

	if _, err := h.trucks.Create(r.Context(), truck); err != nil {
		h.logger.Error("create truck entry", zap.Error(err))
		h.sessions.AddFlash(w, r, "danger", "Saving the truck entry failed.")
		http.Redirect(w, r, "/trucks/entry", http.StatusSeeOther)
		return
	}

	h.sessions.AddFlash(w, r, "success",
		fmt.Sprintf("Entry recorded for truck %s.", truck.Plate))
	http.Redirect(w, r, "/trucks/entry", http.StatusSeeOther)
}

// Gatehouse lists trucks still on the premises.
func (h *TruckHandler) Gatehouse(w http.ResponseWriter, r *http.Request) {
	rows, err := h.trucks.OnPremises(r.Context())
	if err != nil {
		h.logger.Error("load trucks on premises", zap.Error(err))
		http.Error(w, "Loading trucks failed", http.StatusInternalServerError)
		return
	}

	data := pageData(w, r, h.sessions, "Trucks on premises")
	data["Rows"] = rows
	render(w, h.logger, h.gatehouseTmpl, "truck_gatehouse.html", data)
}

func (h *TruckHandler) Departure(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		renderNotFound(w, h.logger)
		return
	}

	now := time.Now().Format(entity.TimestampLayout)
	err := h.trucks.MarkDeparture(r.Context(), id, now)
	if errors.Is(err, repository.ErrNotFound) {
		renderNotFound(w, h.logger)
		return
	}
	if err != nil {
		h.logger.Error("mark truck departure", zap.Int("id", id), zap.Error(err))
		http.Error(w, "Recording the departure failed", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/trucks/gatehouse", http.StatusSeeOther)
}
