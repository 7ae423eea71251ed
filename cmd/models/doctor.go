package models

import (
	"gorm.io/gorm"
)

type Doctor struct {
	gorm.Model
	Name  string `gorm:"size:120;not null;unique" json:"name"`
	Email string `gorm:"size:120" json:"email,omitempty"`

	Appointments []Appointment `gorm:"foreignKey:DoctorID;constraint:OnDelete:CASCADE" json:"appointments,omitempty"`
}
