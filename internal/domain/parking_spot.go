package domain

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

type VehicleSize string

const (
	VehicleCompact VehicleSize = "compact"
	VehicleMidsize VehicleSize = "midsize"
	VehicleLarge   VehicleSize = "large"
	VehicleSUV     VehicleSize = "suv"
	VehicleAny     VehicleSize = "any"
)

func (v VehicleSize) Valid() bool {
	switch v {
	case VehicleCompact, VehicleMidsize, VehicleLarge, VehicleSUV, VehicleAny:
		return true
	}
	return false
}

type ParkingSpot struct {
	ID                string      `json:"id" db:"id"`
	Address           string      `json:"address" db:"address"`
	Latitude          float64     `json:"latitude" db:"latitude"`
	Longitude         float64     `json:"longitude" db:"longitude"`
	HourlyRate        float64     `json:"hourly_rate" db:"hourly_rate"`
	IsAvailable       bool        `json:"is_available" db:"is_available"`
	AvailabilityStart time.Time   `json:"availability_start" db:"availability_start"`
	AvailabilityEnd   time.Time   `json:"availability_end" db:"availability_end"`
	MaxVehicleSize    VehicleSize `json:"max_vehicle_size" db:"max_vehicle_size"`
	Description       string      `json:"description" db:"description"`
	ImageURL          null.String `json:"image_url" db:"image_url"`
	OwnerID           string      `json:"owner_id" db:"owner_id"`
	OwnerName         string      `json:"owner_name" db:"owner_name"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at" db:"updated_at"`
}

// Covers reports whether the spot's availability window fully contains [start, end].
func (s ParkingSpot) Covers(start, end time.Time) bool {
	return !start.Before(s.AvailabilityStart) && !end.After(s.AvailabilityEnd)
}

// SpotWithDistance is a spot annotated with its distance in meters from a search center.
type SpotWithDistance struct {
	ParkingSpot
	Distance float64 `json:"distance"`
}

type CreateParkingSpotDTO struct {
	Address           string      `json:"address" binding:"required"`
	Latitude          float64     `json:"latitude"`
	Longitude         float64     `json:"longitude"`
	HourlyRate        float64     `json:"hourly_rate"`
	IsAvailable       *bool       `json:"is_available"`
	AvailabilityStart time.Time   `json:"availability_start" binding:"required"`
	AvailabilityEnd   time.Time   `json:"availability_end" binding:"required"`
	MaxVehicleSize    VehicleSize `json:"max_vehicle_size" binding:"required,oneof=compact midsize large suv any"`
	Description       string      `json:"description"`
	ImageURL          null.String `json:"image_url"`
	OwnerID           string      `json:"owner_id" binding:"required"`
	OwnerName         string      `json:"owner_name" binding:"required"`
}

// ParkingSpotPatch carries the listing fields an owner may change. Absent or
// null fields are left untouched.
type ParkingSpotPatch struct {
	Address           null.String `json:"address"`
	Latitude          null.Float  `json:"latitude"`
	Longitude         null.Float  `json:"longitude"`
	HourlyRate        null.Float  `json:"hourly_rate"`
	IsAvailable       null.Bool   `json:"is_available"`
	AvailabilityStart null.Time   `json:"availability_start"`
	AvailabilityEnd   null.Time   `json:"availability_end"`
	MaxVehicleSize    null.String `json:"max_vehicle_size"`
	Description       null.String `json:"description"`
	ImageURL          null.String `json:"image_url"`
}

// ApplySpotPatch returns a copy of s with every supplied field of p applied
// and UpdatedAt set to now.
func ApplySpotPatch(s ParkingSpot, p ParkingSpotPatch, now time.Time) ParkingSpot {
	if p.Address.Valid {
		s.Address = p.Address.String
	}
	if p.Latitude.Valid {
		s.Latitude = p.Latitude.Float64
	}
	if p.Longitude.Valid {
		s.Longitude = p.Longitude.Float64
	}
	if p.HourlyRate.Valid {
		s.HourlyRate = p.HourlyRate.Float64
	}
	if p.IsAvailable.Valid {
		s.IsAvailable = p.IsAvailable.Bool
	}
	if p.AvailabilityStart.Valid {
		s.AvailabilityStart = p.AvailabilityStart.Time.UTC()
	}
	if p.AvailabilityEnd.Valid {
		s.AvailabilityEnd = p.AvailabilityEnd.Time.UTC()
	}
	if p.MaxVehicleSize.Valid {
		s.MaxVehicleSize = VehicleSize(p.MaxVehicleSize.String)
	}
	if p.Description.Valid {
		s.Description = p.Description.String
	}
	if p.ImageURL.Valid {
		s.ImageURL = p.ImageURL
	}
	s.UpdatedAt = now
	return s
}

// SpotSearch holds the optional filters of a spot listing. A nil field means
// the corresponding filter is not applied.
type SpotSearch struct {
	Latitude    *float64     `form:"latitude"`
	Longitude   *float64     `form:"longitude"`
	Radius      *float64     `form:"radius"`
	MaxPrice    *float64     `form:"max_price"`
	VehicleSize *VehicleSize `form:"vehicle_size" binding:"omitempty,oneof=compact midsize large suv any"`
	StartTime   *time.Time   `form:"start_time"`
	EndTime     *time.Time   `form:"end_time"`
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Pages int `json:"pages"`
}

type SpotPage struct {
	Spots      []ParkingSpot `json:"spots"`
	Pagination Pagination    `json:"pagination"`
}
