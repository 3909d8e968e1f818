package models

import (
	"time"

	"gorm.io/datatypes"
)

// Leak statuses. Any string is accepted by the stores; request validation
// restricts submissions to LeakStatuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusUrgent     = "urgent"
	StatusResolved   = "resolved"
	StatusRejected   = "rejected"
)

var LeakStatuses = []string{StatusPending, StatusInProgress, StatusUrgent, StatusResolved, StatusRejected}

const (
	LeakTypeWaterMain      = "water_main"
	LeakTypeFireHydrant    = "fire_hydrant"
	LeakTypePipe           = "pipe"
	LeakTypeInfrastructure = "infrastructure"
	LeakTypeOther          = "other"
)

var LeakTypes = []string{LeakTypeWaterMain, LeakTypeFireHydrant, LeakTypePipe, LeakTypeInfrastructure, LeakTypeOther}

// Defaults applied by the stores when a creation payload leaves a field empty.
const (
	DefaultLeakTitle       = "Untitled Leak Report"
	DefaultLeakDescription = "No description provided"
	DefaultLeakLocation    = "Unknown Location"
	DefaultLeakStatus      = StatusPending
	DefaultLeakType        = LeakTypeOther
	DefaultLeakSeverity    = 3
)

// DefaultCoordinates is the fallback point (New York City).
var DefaultCoordinates = Coordinates{Lat: 40.7128, Lng: -74.0060}

// Coordinates is a WGS84 lat/lng pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Leak is one citizen report.
type Leak struct {
	ID          int                             `gorm:"primaryKey"                              json:"id"`
	Title       string                          `gorm:"column:title;not null"                   json:"title"`
	Description string                          `gorm:"column:description;not null"             json:"description"`
	UserID      *int                            `gorm:"column:user_id;index"                    json:"userId"`
	User        *User                           `gorm:"foreignKey:UserID"                       json:"-"`
	Location    string                          `gorm:"column:location;not null"                json:"location"`
	Coordinates datatypes.JSONType[Coordinates] `gorm:"column:coordinates;type:jsonb;not null"  json:"coordinates"`
	Status      string                          `gorm:"column:status;not null"                  json:"status"`
	LeakType    string                          `gorm:"column:leak_type;not null"               json:"leakType"`
	Severity    int                             `gorm:"column:severity"                         json:"severity"`
	Images      datatypes.JSONSlice[string]     `gorm:"column:images;type:jsonb;not null"       json:"images"`
	IsValidated bool                            `gorm:"column:is_validated;default:false"       json:"isValidated"`
	CreatedAt   time.Time                       `gorm:"column:created_at;index"                 json:"createdAt"`
	UpdatedAt   time.Time                       `gorm:"column:updated_at"                       json:"updatedAt"`
}

// Point returns the leak's coordinates.
func (l *Leak) Point() Coordinates {
	return l.Coordinates.Data()
}

// CoordinatesInput keeps lat/lng optional so a partial object can be told
// apart from a complete one.
type CoordinatesInput struct {
	Lat *float64 `json:"lat" validate:"required"`
	Lng *float64 `json:"lng" validate:"required"`
}

// LeakInput is the creation payload handed to the stores. Empty fields are
// filled with the Default* values at insert time.
type LeakInput struct {
	Title       string            `json:"title"       validate:"required"`
	Description string            `json:"description" validate:"required"`
	Location    string            `json:"location"    validate:"required"`
	Coordinates *CoordinatesInput `json:"coordinates" validate:"required"`
	Status      string            `json:"status"      validate:"required,oneof=pending in_progress urgent resolved rejected"`
	LeakType    string            `json:"leakType"    validate:"required,oneof=water_main fire_hydrant pipe infrastructure other"`
	Severity    int               `json:"severity"    validate:"min=1,max=5"`
	Images      []string          `json:"images"      validate:"required"`
}

// CoordinatesOrDefault resolves the payload coordinates. A missing object or
// one lacking either member yields DefaultCoordinates.
func (in LeakInput) CoordinatesOrDefault() Coordinates {
	if in.Coordinates == nil || in.Coordinates.Lat == nil || in.Coordinates.Lng == nil {
		return DefaultCoordinates
	}
	return Coordinates{Lat: *in.Coordinates.Lat, Lng: *in.Coordinates.Lng}
}
