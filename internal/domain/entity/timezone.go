package entity

import (
	"time"

	"gorm.io/gorm"
)

// Timezone holds the IANA zone and naming for one IATA airport. The
// normalizer uses TzName to turn a local wall-clock time into an absolute
// instant.
type Timezone struct {
	ID          uint
	AirportCode string
	AirportName string
	CityCode    string
	CityName    string
	GmtTz       string
	TzName      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt
}
