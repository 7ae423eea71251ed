package calendar

import (
	"strings"
	"time"
)

type ModalState int

const (
	StateClosed ModalState = iota
	StateCreate
	StateEdit
)

// minuteLayout matches a datetime-local input: minute precision, no zone.
const minuteLayout = "2006-01-02T15:04"

// titleSeparator splits the patient name from the service info in an event
// title. Everything before it is the patient's display name.
const titleSeparator = " | "

const defaultService = "Consult"

// Form mirrors the modal's input fields. Start and End hold minute-precision
// local timestamps exactly as the inputs would. EventID is zero until the
// draft refers to a persisted appointment.
type Form struct {
	EventID   uint
	PatientID uint
	DoctorID  uint
	Start     string
	End       string
	Service   string
	Note      string
}

// Modal is the dialog state machine. Only one instance exists; opening
// always overwrites the previous draft and closing always resets the form,
// so a resubmission starts from a clean slate.
type Modal struct {
	state          ModalState
	title          string
	form           Form
	actionsVisible bool
	patients       []Patient
}

func NewModal(patients []Patient) *Modal {
	return &Modal{patients: patients}
}

func (m *Modal) State() ModalState { return m.state }
func (m *Modal) Title() string     { return m.title }
func (m *Modal) Form() *Form       { return &m.form }

// ActionsVisible reports whether the delete and reminder buttons are shown.
// They only make sense for an appointment that already exists.
func (m *Modal) ActionsVisible() bool { return m.actionsVisible }

// Patients returns the reference list the patient selector is built from.
func (m *Modal) Patients() []Patient { return m.patients }

// OpenCreate opens the dialog blank except for the selected time range.
func (m *Modal) OpenCreate(start, end time.Time) {
	m.form = Form{
		Start:   start.Format(minuteLayout),
		End:     end.Format(minuteLayout),
		Service: defaultService,
	}
	m.title = "Adaugă programare"
	m.state = StateCreate
	m.actionsVisible = false
}

// OpenEdit populates the form from a clicked event. Times are truncated to
// minute precision; a missing end falls back to the start.
func (m *Modal) OpenEdit(ev Event) {
	startStr := ev.Start.Format(minuteLayout)
	endStr := startStr
	if !ev.End.IsZero() {
		endStr = ev.End.Format(minuteLayout)
	}
	service := ev.Service
	if service == "" {
		service = defaultService
	}

	m.form = Form{
		EventID:   ev.ID,
		PatientID: matchPatient(m.patients, ev.Title),
		Start:     startStr,
		End:       endStr,
		Service:   service,
		Note:      ev.Note,
	}
	m.title = "Editează programare"
	m.state = StateEdit
	m.actionsVisible = true
}

// Close hides the dialog and resets every field, regardless of how the
// dialog was dismissed or whether the triggering action succeeded.
func (m *Modal) Close() {
	m.state = StateClosed
	m.title = ""
	m.form = Form{}
	m.actionsVisible = false
}

// matchPatient pre-selects the patient whose display name exactly equals the
// title segment before the separator. Best effort: on anything but an exact
// match nothing is selected and the user picks manually.
func matchPatient(patients []Patient, title string) uint {
	name := title
	if i := strings.Index(title, titleSeparator); i >= 0 {
		name = title[:i]
	}
	for _, p := range patients {
		if p.FullName == name {
			return p.ID
		}
	}
	return 0
}
