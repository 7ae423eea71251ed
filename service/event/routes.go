package event

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/cabinetmed/cabinet-server/cmd/models"
	"github.com/cabinetmed/cabinet-server/service/reminder"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type EventHandler struct {
	db        *gorm.DB
	reminders *reminder.Service
}

func NewEventHandler(db *gorm.DB, reminders *reminder.Service) *EventHandler {
	return &EventHandler{db: db, reminders: reminders}
}

func (h *EventHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/events", h.GetEvents).Methods("GET")
	router.HandleFunc("/events", h.CreateEvent).Methods("POST")
	router.HandleFunc("/events/{id}", h.UpdateEvent).Methods("PUT")
	router.HandleFunc("/events/{id}", h.DeleteEvent).Methods("DELETE")
	router.HandleFunc("/events/{id}/send_reminder", h.SendReminder).Methods("POST")
}

// eventRecord is the shape the calendar widget consumes: FullCalendar reads
// id/title/start/end directly and exposes the rest through extendedProps.
type eventRecord struct {
	ID            uint          `json:"id"`
	Title         string        `json:"title"`
	Start         string        `json:"start"`
	End           string        `json:"end"`
	ExtendedProps extendedProps `json:"extendedProps"`
}

type extendedProps struct {
	Note    string `json:"note"`
	Service string `json:"service"`
}

// titleFor builds the event title shown on the calendar grid. The segment
// before " | " is the patient's display name; the modal relies on that when
// it pre-selects the patient on edit.
func titleFor(a *models.Appointment) string {
	if a.Patient == nil {
		return "Programare"
	}
	return a.Patient.FullName + " | " + a.Service
}

func toRecord(a *models.Appointment) eventRecord {
	return eventRecord{
		ID:    a.ID,
		Title: titleFor(a),
		Start: formatLocalNaive(a.StartAt),
		End:   formatLocalNaive(a.EndAt),
		ExtendedProps: extendedProps{
			Note:    a.Note,
			Service: a.Service,
		},
	}
}

// GetEvents returns appointments inside the visible range. A missing or
// unparseable range yields an empty array rather than an error.
func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	startParam := r.URL.Query().Get("start")
	endParam := r.URL.Query().Get("end")
	if startParam == "" || endParam == "" {
		json.NewEncoder(w).Encode([]eventRecord{})
		return
	}

	start, errStart := parseToLocalNaive(startParam)
	end, errEnd := parseToLocalNaive(endParam)
	if errStart != nil || errEnd != nil {
		json.NewEncoder(w).Encode([]eventRecord{})
		return
	}

	query := h.db.Model(&models.Appointment{}).Preload("Patient").
		Where("start_at >= ? AND end_at <= ?", start, end)

	if doctorParam := r.URL.Query().Get("doctor_id"); doctorParam != "" {
		doctorID, err := strconv.ParseUint(doctorParam, 10, 64)
		if err != nil {
			writeError(w, "ID doctor invalid", http.StatusBadRequest)
			return
		}
		query = query.Where("doctor_id = ?", doctorID)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		writeError(w, "Eroare la încărcarea programărilor", http.StatusInternalServerError)
		return
	}

	records := make([]eventRecord, 0, len(appointments))
	for i := range appointments {
		records = append(records, toRecord(&appointments[i]))
	}
	json.NewEncoder(w).Encode(records)
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PatientID uint   `json:"patient_id"`
		DoctorID  *uint  `json:"doctor_id"`
		Start     string `json:"start"`
		End       string `json:"end"`
		Service   string `json:"service"`
		Note      string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Corp cerere invalid", http.StatusBadRequest)
		return
	}

	if req.PatientID == 0 || req.Start == "" || req.End == "" {
		writeError(w, "Câmpuri lipsă", http.StatusBadRequest)
		return
	}

	start, errStart := parseToLocalNaive(req.Start)
	end, errEnd := parseToLocalNaive(req.End)
	if errStart != nil || errEnd != nil {
		writeError(w, "Format dată invalid", http.StatusBadRequest)
		return
	}
	if end.Before(start) {
		writeError(w, "Intervalul este invalid", http.StatusBadRequest)
		return
	}

	var patient models.Patient
	if err := h.db.First(&patient, req.PatientID).Error; err != nil {
		writeError(w, "Pacientul nu există", http.StatusNotFound)
		return
	}
	if req.DoctorID != nil {
		var doctor models.Doctor
		if err := h.db.First(&doctor, *req.DoctorID).Error; err != nil {
			writeError(w, "Doctorul nu există", http.StatusNotFound)
			return
		}
	}

	service := strings.TrimSpace(req.Service)
	if service == "" {
		service = "Consult"
	}

	appointment := models.Appointment{
		PatientID: patient.ID,
		DoctorID:  req.DoctorID,
		Service:   service,
		StartAt:   start,
		EndAt:     end,
		Note:      strings.TrimSpace(req.Note),
	}

	if err := h.db.Create(&appointment).Error; err != nil {
		writeError(w, "Eroare la crearea programării", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{"id": appointment.ID})
}

func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	appointment, ok := h.findAppointment(w, r)
	if !ok {
		return
	}

	var req struct {
		Start   *string `json:"start"`
		End     *string `json:"end"`
		Service *string `json:"service"`
		Note    *string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Corp cerere invalid", http.StatusBadRequest)
		return
	}

	if req.Start != nil {
		start, err := parseToLocalNaive(*req.Start)
		if err != nil {
			writeError(w, "Format dată invalid pentru start", http.StatusBadRequest)
			return
		}
		appointment.StartAt = start
	}
	if req.End != nil {
		end, err := parseToLocalNaive(*req.End)
		if err != nil {
			writeError(w, "Format dată invalid pentru end", http.StatusBadRequest)
			return
		}
		appointment.EndAt = end
	}
	if req.Service != nil {
		if service := strings.TrimSpace(*req.Service); service != "" {
			appointment.Service = service
		}
	}
	if req.Note != nil {
		appointment.Note = strings.TrimSpace(*req.Note)
	}

	// Any change re-arms the reminder so the patient hears about the new slot.
	appointment.ReminderSent = false

	if err := h.db.Save(appointment).Error; err != nil {
		writeError(w, "Eroare la salvarea programării", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	appointment, ok := h.findAppointment(w, r)
	if !ok {
		return
	}

	if err := h.db.Unscoped().Delete(appointment).Error; err != nil {
		writeError(w, "Eroare la ștergerea programării", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *EventHandler) SendReminder(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		writeError(w, "ID programare invalid", http.StatusBadRequest)
		return
	}

	var appointment models.Appointment
	if err := h.db.Preload("Patient").First(&appointment, appointmentID).Error; err != nil {
		writeError(w, "Programarea nu există", http.StatusNotFound)
		return
	}

	if err := h.reminders.SendFor(&appointment); err != nil {
		log.Printf("Reminder for appointment %d failed: %v", appointment.ID, err)
		writeError(w, "Eroare la trimiterea reminderului", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Reminder trimis"})
}

func (h *EventHandler) findAppointment(w http.ResponseWriter, r *http.Request) (*models.Appointment, bool) {
	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		writeError(w, "ID programare invalid", http.StatusBadRequest)
		return nil, false
	}

	var appointment models.Appointment
	if err := h.db.First(&appointment, appointmentID).Error; err != nil {
		writeError(w, "Programarea nu există", http.StatusNotFound)
		return nil, false
	}
	return &appointment, true
}

func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
