package models

import (
	"time"
)

// Identification is one completed plant identification. Rows are written
// once per successful upload and only ever removed by a profile reset.
type Identification struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	Filename   string  `json:"filename"`
	PlantName  string  `json:"plant_name"` // scientific name
	CommonName string  `json:"common_name"`
	Confidence float64 `json:"confidence"`
	CareLight  string  `json:"care_light"`
	CareWater  string  `json:"care_water"`
	CareSoil   string  `json:"care_soil"`
	CareNotes  string  `json:"care_notes"`

	UserID uint `gorm:"index" json:"user_id"`
	User   User `json:"-" gorm:"foreignKey:UserID"`

	CreatedAt time.Time `json:"created_at"`
}
