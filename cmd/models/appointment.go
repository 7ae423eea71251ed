package models

import (
	"time"

	"gorm.io/gorm"
)

type Appointment struct {
	gorm.Model
	PatientID    uint      `gorm:"not null;index" json:"patient_id"`
	DoctorID     *uint     `gorm:"index" json:"doctor_id,omitempty"`
	Service      string    `gorm:"size:60;not null;default:'Consult'" json:"service"`
	StartAt      time.Time `gorm:"not null;index" json:"start_at"`
	EndAt        time.Time `gorm:"not null" json:"end_at"`
	Note         string    `gorm:"type:text" json:"note,omitempty"`
	ReminderSent bool      `gorm:"not null;default:false" json:"reminder_sent"`

	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}
