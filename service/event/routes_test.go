package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/cabinetmed/cabinet-server/cmd/models"
	"github.com/cabinetmed/cabinet-server/service/reminder"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type noopMailer struct{}

func (noopMailer) Send(to, subject, body string) error { return nil }

func setup(t *testing.T) (*gorm.DB, *mux.Router) {
	t.Helper()
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		t.Skip("DB_URL not set")
	}
	gdb, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	if err := gdb.AutoMigrate(&models.Patient{}, &models.Doctor{}, &models.Appointment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	router := mux.NewRouter()
	subrouter := router.PathPrefix("/api").Subrouter()
	handler := NewEventHandler(gdb, reminder.NewService(gdb, noopMailer{}))
	handler.RegisterRoutes(subrouter)
	return gdb, router
}

func createPatient(t *testing.T, gdb *gorm.DB) *models.Patient {
	t.Helper()
	p := &models.Patient{
		FullName: fmt.Sprintf("Pacient %s", uuid.New().String()[:8]),
		Email:    fmt.Sprintf("p-%s@test.local", uuid.New().String()[:8]),
	}
	if err := gdb.Create(p).Error; err != nil {
		t.Fatalf("create patient: %v", err)
	}
	t.Cleanup(func() { gdb.Unscoped().Delete(p) })
	return p
}

func doJSON(t *testing.T, router *mux.Router, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestEventLifecycle(t *testing.T) {
	gdb, router := setup(t)
	patient := createPatient(t, gdb)

	// create
	rec := doJSON(t, router, http.MethodPost, "/api/events", map[string]interface{}{
		"patient_id": patient.ID,
		"start":      "2030-06-01T09:00:00",
		"end":        "2030-06-01T09:30:00",
		"note":       "prima vizită",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil || created.ID == 0 {
		t.Fatalf("create response: %s", rec.Body.String())
	}
	t.Cleanup(func() { gdb.Unscoped().Delete(&models.Appointment{}, created.ID) })

	// fetch range
	rec = doJSON(t, router, http.MethodGet,
		"/api/events?start=2030-06-01T00:00:00&end=2030-06-02T00:00:00", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	var events []struct {
		ID            uint   `json:"id"`
		Title         string `json:"title"`
		Start         string `json:"start"`
		ExtendedProps struct {
			Note    string `json:"note"`
			Service string `json:"service"`
		} `json:"extendedProps"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatalf("list decode: %v", err)
	}
	found := false
	for _, ev := range events {
		if ev.ID != created.ID {
			continue
		}
		found = true
		if want := patient.FullName + " | Consult"; ev.Title != want {
			t.Errorf("title = %q, want %q", ev.Title, want)
		}
		if ev.Start != "2030-06-01T09:00:00" {
			t.Errorf("start = %q", ev.Start)
		}
		if ev.ExtendedProps.Note != "prima vizită" || ev.ExtendedProps.Service != "Consult" {
			t.Errorf("extendedProps = %+v", ev.ExtendedProps)
		}
	}
	if !found {
		t.Fatal("created event missing from range query")
	}

	// reschedule (subset update) resets the reminder flag
	gdb.Model(&models.Appointment{}).Where("id = ?", created.ID).Update("reminder_sent", true)
	rec = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/events/%d", created.ID), map[string]interface{}{
		"start": "2030-06-01T10:00:00",
		"end":   "2030-06-01T10:30:00",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d: %s", rec.Code, rec.Body.String())
	}
	var appt models.Appointment
	if err := gdb.First(&appt, created.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if appt.ReminderSent {
		t.Error("reminder flag must be re-armed after a change")
	}
	if appt.StartAt.Hour() != 10 {
		t.Errorf("start hour = %d, want 10", appt.StartAt.Hour())
	}

	// send reminder
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/events/%d/send_reminder", created.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("send_reminder: status %d: %s", rec.Code, rec.Body.String())
	}
	if err := gdb.First(&appt, created.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !appt.ReminderSent {
		t.Error("reminder flag should be set after an explicit send")
	}

	// delete
	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/events/%d", created.ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", rec.Code)
	}
	if err := gdb.First(&models.Appointment{}, created.ID).Error; err == nil {
		t.Error("appointment still present after delete")
	}
}

func TestCreateEventValidation(t *testing.T) {
	gdb, router := setup(t)
	patient := createPatient(t, gdb)

	cases := []struct {
		name    string
		payload map[string]interface{}
		status  int
	}{
		{"missing fields", map[string]interface{}{"patient_id": patient.ID}, http.StatusBadRequest},
		{"bad dates", map[string]interface{}{
			"patient_id": patient.ID, "start": "azi", "end": "maine",
		}, http.StatusBadRequest},
		{"unknown patient", map[string]interface{}{
			"patient_id": uint(999999999), "start": "2030-06-01T09:00:00", "end": "2030-06-01T10:00:00",
		}, http.StatusNotFound},
		{"unknown doctor", map[string]interface{}{
			"patient_id": patient.ID, "doctor_id": uint(999999999),
			"start": "2030-06-01T09:00:00", "end": "2030-06-01T10:00:00",
		}, http.StatusNotFound},
		{"inverted range", map[string]interface{}{
			"patient_id": patient.ID, "start": "2030-06-01T10:00:00", "end": "2030-06-01T09:00:00",
		}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		rec := doJSON(t, router, http.MethodPost, "/api/events", tc.payload)
		if rec.Code != tc.status {
			t.Errorf("%s: status %d, want %d (%s)", tc.name, rec.Code, tc.status, rec.Body.String())
		}
	}
}

func TestGetEventsToleratesBadRange(t *testing.T) {
	_, router := setup(t)

	for _, path := range []string{
		"/api/events",
		"/api/events?start=azi&end=maine",
		fmt.Sprintf("/api/events?start=%s", time.Now().Format("2006-01-02")),
	} {
		rec := doJSON(t, router, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status %d", path, rec.Code)
			continue
		}
		var events []json.RawMessage
		if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
			t.Errorf("%s: not an array: %s", path, rec.Body.String())
		} else if len(events) != 0 {
			t.Errorf("%s: expected an empty array", path)
		}
	}
}
