package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/cabinetmed/cabinet-server/cmd/models"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// DefaultServices is the base enumeration offered in the appointment modal.
// "Consult" must stay first: it is the fallback category everywhere.
var DefaultServices = []string{
	"Consult",
	"Detartraj",
	"Tratament carie",
	"Extracție",
	"Albire",
	"Control",
}

type CatalogHandler struct {
	db *gorm.DB
}

func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

func (h *CatalogHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/services", h.GetServices).Methods("GET")
}

// GetServices returns the service categories: the fixed defaults plus any
// distinct values that already made it into stored appointments.
func (h *CatalogHandler) GetServices(w http.ResponseWriter, r *http.Request) {
	var stored []string
	if err := h.db.Model(&models.Appointment{}).
		Distinct("service").Order("service").Pluck("service", &stored).Error; err != nil {
		http.Error(w, `{"error": "Eroare la încărcarea serviciilor"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MergeServices(DefaultServices, stored))
}

// MergeServices appends stored categories missing from the defaults, keeping
// the default ordering stable.
func MergeServices(defaults, stored []string) []string {
	seen := make(map[string]bool, len(defaults))
	merged := make([]string, 0, len(defaults)+len(stored))
	for _, s := range defaults {
		seen[s] = true
		merged = append(merged, s)
	}
	for _, s := range stored {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		merged = append(merged, s)
	}
	return merged
}
