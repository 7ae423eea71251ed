package patient

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cabinetmed/cabinet-server/cmd/models"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type PatientHandler struct {
	db *gorm.DB
}

func NewPatientHandler(db *gorm.DB) *PatientHandler {
	return &PatientHandler{db: db}
}

func (h *PatientHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/patients", h.GetPatients).Methods("GET")
	router.HandleFunc("/patients", h.CreatePatient).Methods("POST")
}

type patientRecord struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
}

// GetPatients returns the reference list the calendar modal is populated
// from, ordered by display name.
func (h *PatientHandler) GetPatients(w http.ResponseWriter, r *http.Request) {
	var patients []models.Patient
	if err := h.db.Order("full_name").Find(&patients).Error; err != nil {
		http.Error(w, `{"error": "Eroare la încărcarea pacienților"}`, http.StatusInternalServerError)
		return
	}

	records := make([]patientRecord, 0, len(patients))
	for _, p := range patients {
		records = append(records, patientRecord{ID: p.ID, FullName: p.FullName})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

func (h *PatientHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "Corp cerere invalid"}`, http.StatusBadRequest)
		return
	}

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		http.Error(w, `{"error": "Numele complet este obligatoriu"}`, http.StatusBadRequest)
		return
	}

	patient := models.Patient{
		FullName: fullName,
		Phone:    strings.TrimSpace(req.Phone),
		Email:    strings.TrimSpace(req.Email),
	}

	if err := h.db.Create(&patient).Error; err != nil {
		http.Error(w, `{"error": "Eroare la crearea pacientului"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(patientRecord{ID: patient.ID, FullName: patient.FullName})
}
