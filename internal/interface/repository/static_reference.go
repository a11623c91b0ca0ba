package repository

import (
	"context"
	"fmt"
	"strings"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/internal/domain/repository"
)

// Built-in reference tables used when no Postgres DSN is configured, and
// by tests. Covers the carriers and airports the supported formats emit.

var staticAirlines = map[string]string{
	"VJ": "VietJet Air",
	"VN": "Vietnam Airlines",
	"QH": "Bamboo Airways",
	"BL": "Pacific Airlines",
	"AK": "AirAsia",
	"FD": "Thai AirAsia",
	"QZ": "Indonesia AirAsia",
	"D7": "AirAsia X",
	"I5": "AirAsia India",
	"SQ": "Singapore Airlines",
	"TR": "Scoot",
	"CX": "Cathay Pacific",
	"MH": "Malaysia Airlines",
	"PR": "Philippine Airlines",
	"5J": "Cebu Pacific",
	"3K": "Jetstar Asia",
}

var staticTimezones = map[string]string{
	"SGN": "Asia/Ho_Chi_Minh",
	"HAN": "Asia/Ho_Chi_Minh",
	"DAD": "Asia/Ho_Chi_Minh",
	"CXR": "Asia/Ho_Chi_Minh",
	"PQC": "Asia/Ho_Chi_Minh",
	"KUL": "Asia/Kuala_Lumpur",
	"PEN": "Asia/Kuala_Lumpur",
	"BKK": "Asia/Bangkok",
	"DMK": "Asia/Bangkok",
	"HKT": "Asia/Bangkok",
	"CGK": "Asia/Jakarta",
	"DPS": "Asia/Makassar",
	"SIN": "Asia/Singapore",
	"HKG": "Asia/Hong_Kong",
	"MNL": "Asia/Manila",
	"CEB": "Asia/Manila",
	"NRT": "Asia/Tokyo",
	"HND": "Asia/Tokyo",
	"KIX": "Asia/Tokyo",
	"ICN": "Asia/Seoul",
	"TPE": "Asia/Taipei",
	"SYD": "Australia/Sydney",
	"MEL": "Australia/Melbourne",
	"DEL": "Asia/Kolkata",
	"BOM": "Asia/Kolkata",
}

// StaticAirlineRepository serves the built-in carrier table.
type StaticAirlineRepository struct{}

func NewStaticAirlineRepository() repository.AirlineRepository {
	return &StaticAirlineRepository{}
}

func (r *StaticAirlineRepository) GetByCode(_ context.Context, code string) (*entity.Airline, error) {
	name, ok := staticAirlines[strings.ToUpper(code)]
	if !ok {
		return nil, fmt.Errorf("airline %q not in static reference", code)
	}
	return &entity.Airline{Code: strings.ToUpper(code), Name: name}, nil
}

// StaticTimezoneRepository serves the built-in airport table.
type StaticTimezoneRepository struct{}

func NewStaticTimezoneRepository() repository.TimezoneRepository {
	return &StaticTimezoneRepository{}
}

func (r *StaticTimezoneRepository) GetByAirportCode(_ context.Context, code string) (*entity.Timezone, error) {
	tz, ok := staticTimezones[strings.ToUpper(code)]
	if !ok {
		return nil, fmt.Errorf("airport %q not in static reference", code)
	}
	return &entity.Timezone{AirportCode: strings.ToUpper(code), TzName: tz}, nil
}
