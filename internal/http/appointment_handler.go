package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/example/appointment-reminder/internal/application"
	"github.com/example/appointment-reminder/internal/calendar"
)

type appointmentService interface {
	Add(ctx context.Context, input application.AppointmentInput) (application.AddResult, error)
	List() string
	Appointments() []application.Appointment
	CheckReminders(ctx context.Context) application.ReminderResult
}

type AppointmentHandler struct {
	service   appointmentService
	now       func() time.Time
	logger    *slog.Logger
	responder responder
}

// NewAppointmentHandler wires the handler. now supplies the DTSTAMP and the
// location used when exporting; nil means time.Now.
func NewAppointmentHandler(service appointmentService, now func() time.Time, logger *slog.Logger) *AppointmentHandler {
	if now == nil {
		now = time.Now
	}
	return &AppointmentHandler{service: service, now: now, logger: logger, responder: newResponder(logger)}
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	req, err := decodeAppointmentRequest(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	result, err := h.service.Add(r.Context(), req.toInput())
	status := addStatusCode(err)
	if status == http.StatusInternalServerError {
		h.responder.writeError(r.Context(), w, status, err)
		return
	}
	if err != nil {
		handlerLogger(r.Context(), h.logger, "AppointmentHandler", "Create").
			InfoContext(r.Context(), "appointment rejected", "status", status, "error_kind", application.ErrorKind(err))
	}

	response := addResponse{Status: result.Status, Listing: result.Listing}
	if err == nil {
		dto := toAppointmentDTO(result.Appointment)
		response.Appointment = &dto
	}
	h.responder.writeJSON(r.Context(), w, status, response)
}

func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listResponse{
		Listing:      h.service.List(),
		Appointments: toAppointmentDTOs(h.service.Appointments()),
	})
}

func (h *AppointmentHandler) Reminders(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	result := h.service.CheckReminders(r.Context())
	h.responder.writeJSON(r.Context(), w, http.StatusOK, reminderResponse{
		Reminders: result.Reminders,
		Due:       toAppointmentDTOs(result.Due),
		Listing:   result.Listing,
	})
}

func (h *AppointmentHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	now := h.now()
	feed, skipped := calendar.Export(h.service.Appointments(), now.Location(), now)
	if skipped > 0 {
		handlerLogger(r.Context(), h.logger, "AppointmentHandler", "Export").
			WarnContext(r.Context(), "appointments with unparseable schedules left out of export", "skipped", skipped)
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="appointments.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(feed)); err != nil {
		h.responder.loggerFor(r.Context()).ErrorContext(r.Context(), "failed to write calendar", "error", err)
	}
}

func addStatusCode(err error) int {
	if err == nil {
		return http.StatusCreated
	}
	if errors.Is(err, application.ErrDuplicate) {
		return http.StatusConflict
	}
	var vErr *application.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusUnprocessableEntity
	}
	var eErr *application.EnrichmentError
	if errors.As(err, &eErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

type appointmentRequest struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

func decodeAppointmentRequest(r *http.Request) (appointmentRequest, error) {
	var req appointmentRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return req, err
		}
		req.Title = r.PostFormValue("title")
		req.Date = r.PostFormValue("date")
		req.Time = r.PostFormValue("time")
		req.Location = r.PostFormValue("location")
		req.Notes = r.PostFormValue("notes")
		return req, nil
	default:
		err := json.NewDecoder(r.Body).Decode(&req)
		return req, err
	}
}

func (r appointmentRequest) toInput() application.AppointmentInput {
	return application.AppointmentInput{
		Title:    r.Title,
		Date:     r.Date,
		Time:     r.Time,
		Location: r.Location,
		Notes:    r.Notes,
	}
}

type addResponse struct {
	Status      string          `json:"status"`
	Listing     string          `json:"listing"`
	Appointment *appointmentDTO `json:"appointment,omitempty"`
}

type listResponse struct {
	Listing      string           `json:"listing"`
	Appointments []appointmentDTO `json:"appointments"`
}

type reminderResponse struct {
	Reminders string           `json:"reminders"`
	Due       []appointmentDTO `json:"due"`
	Listing   string           `json:"listing"`
}

type appointmentDTO struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Date              string `json:"date"`
	Time              string `json:"time"`
	Location          string `json:"location"`
	Notes             string `json:"notes"`
	CompressedContext string `json:"compressed_context,omitempty"`
	CreatedAt         string `json:"created_at"`
}

func toAppointmentDTO(a application.Appointment) appointmentDTO {
	return appointmentDTO{
		ID:                a.ID,
		Title:             a.Title,
		Date:              a.Date,
		Time:              a.Time,
		Location:          a.Location,
		Notes:             a.Notes,
		CompressedContext: a.CompressedContext,
		CreatedAt:         a.CreatedAt.Format(time.RFC3339),
	}
}

func toAppointmentDTOs(appointments []application.Appointment) []appointmentDTO {
	out := make([]appointmentDTO, 0, len(appointments))
	for _, a := range appointments {
		out = append(out, toAppointmentDTO(a))
	}
	return out
}
