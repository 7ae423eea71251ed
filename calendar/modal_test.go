package calendar

import (
	"testing"
	"time"
)

func TestModalStartsClosed(t *testing.T) {
	m := NewModal(nil)
	if m.State() != StateClosed {
		t.Fatalf("state = %v, want StateClosed", m.State())
	}
	if m.ActionsVisible() {
		t.Error("actions hidden while closed")
	}
}

func TestOpenCreateBlanksFormAndHidesActions(t *testing.T) {
	m := NewModal([]Patient{{ID: 1, FullName: "Ana Pop"}})
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)
	end := time.Date(2025, 6, 1, 9, 30, 0, 0, time.Local)

	m.OpenCreate(start, end)

	if m.State() != StateCreate {
		t.Fatalf("state = %v, want StateCreate", m.State())
	}
	if m.Title() != "Adaugă programare" {
		t.Errorf("title = %q", m.Title())
	}
	f := m.Form()
	if f.EventID != 0 || f.PatientID != 0 || f.Note != "" {
		t.Errorf("create form not blank: %+v", *f)
	}
	if f.Service != "Consult" {
		t.Errorf("service = %q, want the Consult default", f.Service)
	}
	if m.ActionsVisible() {
		t.Error("delete/reminder actions must be hidden in create mode")
	}
}

func TestOpenEditTruncatesToMinutePrecision(t *testing.T) {
	m := NewModal(nil)
	m.OpenEdit(Event{
		ID:      3,
		Title:   "Ana Pop | Consult",
		Start:   time.Date(2025, 6, 2, 10, 15, 42, 999, time.Local),
		End:     time.Date(2025, 6, 2, 11, 45, 7, 0, time.Local),
		Service: "Detartraj",
		Note:    "sensibilitate",
	})

	f := m.Form()
	if f.Start != "2025-06-02T10:15" {
		t.Errorf("start = %q, want minute precision", f.Start)
	}
	if f.End != "2025-06-02T11:45" {
		t.Errorf("end = %q, want minute precision", f.End)
	}
	if f.EventID != 3 || f.Service != "Detartraj" || f.Note != "sensibilitate" {
		t.Errorf("form = %+v", *f)
	}
	if !m.ActionsVisible() {
		t.Error("delete/reminder actions must be visible in edit mode")
	}
}

func TestOpenEditDefaults(t *testing.T) {
	m := NewModal(nil)
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.Local)

	// no end reported, no service on record
	m.OpenEdit(Event{ID: 3, Title: "Cineva", Start: start})

	f := m.Form()
	if f.End != f.Start {
		t.Errorf("missing end should fall back to start, got %q vs %q", f.End, f.Start)
	}
	if f.Service != "Consult" {
		t.Errorf("service = %q, want the Consult default", f.Service)
	}
	if f.Note != "" {
		t.Errorf("note = %q, want empty default", f.Note)
	}
}

func TestCloseResetsEverything(t *testing.T) {
	m := NewModal([]Patient{{ID: 1, FullName: "Ana Pop"}})
	m.OpenEdit(Event{
		ID:    3,
		Title: "Ana Pop | Consult",
		Start: time.Date(2025, 6, 2, 10, 0, 0, 0, time.Local),
		End:   time.Date(2025, 6, 2, 11, 0, 0, 0, time.Local),
		Note:  "ceva",
	})

	m.Close()

	if m.State() != StateClosed {
		t.Fatalf("state = %v, want StateClosed", m.State())
	}
	if *m.Form() != (Form{}) {
		t.Errorf("form not reset: %+v", *m.Form())
	}
	if m.Title() != "" || m.ActionsVisible() {
		t.Error("title and actions must be reset on close")
	}
}

func TestMatchPatientExactOnly(t *testing.T) {
	patients := []Patient{
		{ID: 1, FullName: "Ana Pop"},
		{ID: 2, FullName: "Ana Popescu"},
	}

	cases := []struct {
		title string
		want  uint
	}{
		{"Ana Pop | Consult", 1},
		{"Ana Popescu | Consult", 2},
		{"Ana Pop", 1},
		{"Ana", 0},
		{"ana pop | Consult", 0},
		{"Ana Pop  | Consult", 0}, // double space: segment is "Ana Pop ", no exact match
	}
	for _, tc := range cases {
		if got := matchPatient(patients, tc.title); got != tc.want {
			t.Errorf("matchPatient(%q) = %d, want %d", tc.title, got, tc.want)
		}
	}
}
