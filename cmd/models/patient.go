package models

import (
	"gorm.io/gorm"
)

type Patient struct {
	gorm.Model
	FullName string `gorm:"size:120;not null" json:"full_name"`
	Phone    string `gorm:"size:30" json:"phone,omitempty"`
	Email    string `gorm:"size:120" json:"email,omitempty"`

	Appointments []Appointment `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"appointments,omitempty"`
}
