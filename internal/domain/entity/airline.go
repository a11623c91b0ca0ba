package entity

import (
	"time"

	"gorm.io/gorm"
)

// Airline maps an IATA carrier code to the airline's canonical name.
type Airline struct {
	ID        uint
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
}
