package reminder

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/cabinetmed/cabinet-server/cmd/models"
	"github.com/robfig/cron/v3"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// Mailer sends a single email. Implemented by SMTPMailer; tests use a fake.
type Mailer interface {
	Send(to, subject, body string) error
}

// Lister returns appointments whose start falls inside [low, high] and that
// still need a reminder. Production uses the gorm query; tests inject a fake.
type Lister interface {
	DueAppointments(low, high time.Time) ([]models.Appointment, error)
}

type Service struct {
	db     *gorm.DB
	mailer Mailer
	lister Lister
}

func NewService(db *gorm.DB, mailer Mailer) *Service {
	return &Service{db: db, mailer: mailer}
}

// NewServiceWithLister is used by tests to bypass the database.
func NewServiceWithLister(db *gorm.DB, mailer Mailer, lister Lister) *Service {
	return &Service{db: db, mailer: mailer, lister: lister}
}

// Compose builds the Romanian reminder email for an appointment start time.
func Compose(patientName string, startAt time.Time) (subject, body string) {
	dateStr := startAt.Format("02.01.2006")
	timeStr := startAt.Format("15:04")
	senderName := envOr("SENDER_NAME", "Cabinet Stomatologic")

	subject = "Reminder programare la cabinet (în 2 zile)"
	body = fmt.Sprintf(
		"Bună, %s,\n\n"+
			"Vă reamintim că aveți o programare la cabinet peste 2 zile,\n"+
			"în data de %s la ora %s.\n\n"+
			"Dacă doriți reprogramare sau aveți întrebări, vă rugăm să ne contactați.\n\n"+
			"Vă așteptăm,\n%s",
		patientName, dateStr, timeStr, senderName,
	)
	return subject, body
}

// SendFor sends the reminder for one appointment immediately and marks it
// sent. The caller must have the Patient association loaded.
func (s *Service) SendFor(appt *models.Appointment) error {
	if appt.Patient == nil || appt.Patient.Email == "" {
		return errors.New("pacientul nu are email")
	}

	subject, body := Compose(appt.Patient.FullName, appt.StartAt)
	if err := s.mailer.Send(appt.Patient.Email, subject, body); err != nil {
		return err
	}

	if s.db != nil {
		appt.ReminderSent = true
		if err := s.db.Model(appt).Update("reminder_sent", true).Error; err != nil {
			log.Printf("Reminder sent but flag update failed for appointment %d: %v", appt.ID, err)
		}
	}
	return nil
}

// SendDueReminders sends reminders for appointments starting roughly 48 hours
// from now (±1h window). Per-recipient failures are logged and skipped.
func (s *Service) SendDueReminders(now time.Time) int {
	low := now.Add(47 * time.Hour)
	high := now.Add(49 * time.Hour)

	appointments, err := s.dueAppointments(low, high)
	if err != nil {
		log.Printf("Reminder query error: %v", err)
		return 0
	}

	sent := 0
	for i := range appointments {
		appt := &appointments[i]
		if appt.Patient == nil || appt.Patient.Email == "" {
			continue
		}
		if err := s.SendFor(appt); err != nil {
			log.Printf("Reminder send failed for appointment %d: %v", appt.ID, err)
			continue
		}
		sent++
	}
	return sent
}

func (s *Service) dueAppointments(low, high time.Time) ([]models.Appointment, error) {
	if s.lister != nil {
		return s.lister.DueAppointments(low, high)
	}
	if s.db == nil {
		return nil, errors.New("no database configured")
	}
	var appointments []models.Appointment
	err := s.db.Preload("Patient").
		Where("start_at >= ? AND start_at <= ? AND reminder_sent = ?", low, high, false).
		Find(&appointments).Error
	return appointments, err
}

// StartScheduler runs the reminder job hourly. The returned cron can be
// stopped on shutdown.
func (s *Service) StartScheduler() *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("@hourly", func() {
		if n := s.SendDueReminders(localNow()); n > 0 {
			log.Printf("Reminder job sent %d emails", n)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule reminder job: %v", err)
	}
	c.Start()
	return c
}

// localNow returns the current clinic wall-clock time with the zone stripped,
// matching how appointment times are stored.
func localNow() time.Time {
	name := envOr("APP_TIMEZONE", "Europe/Bucharest")
	loc, err := time.LoadLocation(name)
	if err != nil {
		loc = time.UTC
	}
	t := time.Now().In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// SMTPMailer sends mail through the SMTP server configured in the
// environment. When credentials are missing it logs the email instead, so
// development setups work without a mail server.
type SMTPMailer struct{}

func (SMTPMailer) Send(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")

	if smtpHost == "" || smtpUser == "" || smtpPass == "" {
		log.Printf("[DEV] Email către %s: %s\n%s", to, subject, body)
		return nil
	}

	sender := envOr("SENDER_EMAIL", smtpUser)
	senderName := envOr("SENDER_NAME", "Cabinet Stomatologic")

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(sender, senderName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	port, err := strconv.Atoi(smtpPort)
	if err != nil {
		port = 587
	}
	d := gomail.NewDialer(smtpHost, port, smtpUser, smtpPass)

	return d.DialAndSend(m)
}
