package doctor

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cabinetmed/cabinet-server/cmd/models"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type DoctorHandler struct {
	db *gorm.DB
}

func NewDoctorHandler(db *gorm.DB) *DoctorHandler {
	return &DoctorHandler{db: db}
}

func (h *DoctorHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/doctors", h.GetDoctors).Methods("GET")
	router.HandleFunc("/doctors", h.CreateDoctor).Methods("POST")
}

type doctorRecord struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// GetDoctors returns the list the calendar's doctor filter is built from.
func (h *DoctorHandler) GetDoctors(w http.ResponseWriter, r *http.Request) {
	var doctors []models.Doctor
	if err := h.db.Order("name").Find(&doctors).Error; err != nil {
		http.Error(w, `{"error": "Eroare la încărcarea doctorilor"}`, http.StatusInternalServerError)
		return
	}

	records := make([]doctorRecord, 0, len(doctors))
	for _, d := range doctors {
		records = append(records, doctorRecord{ID: d.ID, Name: d.Name})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

func (h *DoctorHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "Corp cerere invalid"}`, http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		http.Error(w, `{"error": "Numele este obligatoriu"}`, http.StatusBadRequest)
		return
	}

	doctor := models.Doctor{
		Name:  name,
		Email: strings.TrimSpace(req.Email),
	}

	if err := h.db.Create(&doctor).Error; err != nil {
		http.Error(w, `{"error": "Eroare la crearea doctorului"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(doctorRecord{ID: doctor.ID, Name: doctor.Name})
}
