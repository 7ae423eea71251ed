package api

import (
	"net/http"
	"os"

	"github.com/cabinetmed/cabinet-server/cmd/utils"
	"github.com/cabinetmed/cabinet-server/service/catalog"
	"github.com/cabinetmed/cabinet-server/service/doctor"
	"github.com/cabinetmed/cabinet-server/service/event"
	"github.com/cabinetmed/cabinet-server/service/patient"
	"github.com/cabinetmed/cabinet-server/service/reminder"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type APIServer struct {
	address   string
	db        *gorm.DB
	reminders *reminder.Service
}

func NewApiServer(address string, db *gorm.DB, reminders *reminder.Service) *APIServer {
	return &APIServer{
		address:   address,
		db:        db,
		reminders: reminders,
	}
}

func (s *APIServer) Run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	router := mux.NewRouter()
	subrouter := router.PathPrefix("/api").Subrouter()

	patientHandler := patient.NewPatientHandler(s.db)
	patientHandler.RegisterRoutes(subrouter)

	doctorHandler := doctor.NewDoctorHandler(s.db)
	doctorHandler.RegisterRoutes(subrouter)

	catalogHandler := catalog.NewCatalogHandler(s.db)
	catalogHandler.RegisterRoutes(subrouter)

	eventHandler := event.NewEventHandler(s.db, s.reminders)
	eventHandler.RegisterRoutes(subrouter)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-Request-ID"}),
	)

	handler := utils.RequestID(utils.RequestLogger(logger)(cors(router)))

	logger.Info().Str("address", s.address).Msg("server listening")
	return http.ListenAndServe(s.address, handler)
}
