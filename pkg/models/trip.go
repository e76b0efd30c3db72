package models

import (
	"time"
)

const (
	TripStatusActive    = "active"
	TripStatusCompleted = "completed"
)

// Trip is one visit to the range. Line items track ammunition custody,
// firearm usage rows track what was shot with what.
type Trip struct {
	ID               int            `json:"id" db:"id"`
	UserID           *int           `json:"user_id,omitempty" db:"user_id"`
	Name             string         `json:"name" db:"name"`
	TripDate         time.Time      `json:"trip_date" db:"trip_date"`
	Location         string         `json:"location" db:"location"`
	Notes            string         `json:"notes" db:"notes"`
	Status           string         `json:"status" db:"status"`
	Temperature      *float64       `json:"temperature,omitempty" db:"temperature"`
	WeatherCondition *string        `json:"weather_condition,omitempty" db:"weather_condition"`
	WindSpeed        *float64       `json:"wind_speed,omitempty" db:"wind_speed"`
	Humidity         *float64       `json:"humidity,omitempty" db:"humidity"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	LineItems        []TripLineItem `json:"line_items" db:"-"`
	Firearms         []TripFirearm  `json:"firearms" db:"-"`
}

func (t *Trip) IsActive() bool {
	return t.Status == TripStatusActive
}

func (t *Trip) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   t.ID,
		ResourceType: "trip",
	}
}

// TripLineItem is one SKU's checkout/check-in record within a trip. Name,
// caliber and rounds-per-box are snapshotted at checkout so later catalog
// edits or SKU deletion do not rewrite history. RoundsUsed is derived.
type TripLineItem struct {
	ID              int    `json:"id" db:"id"`
	TripID          int    `json:"trip_id" db:"trip_id"`
	StockItemID     *int   `json:"stock_item_id,omitempty" db:"stock_item_id"`
	Name            string `json:"name" db:"name"`
	Caliber         string `json:"caliber" db:"caliber"`
	RoundsPerBox    int    `json:"rounds_per_box" db:"rounds_per_box"`
	BoxesCheckedOut int    `json:"boxes_checked_out" db:"boxes_checked_out"`
	BoxesCheckedIn  int    `json:"boxes_checked_in" db:"boxes_checked_in"`
	RoundsUsed      int    `json:"rounds_used" db:"-"`
}

func (l *TripLineItem) ComputeRoundsUsed() {
	l.RoundsUsed = (l.BoxesCheckedOut - l.BoxesCheckedIn) * l.RoundsPerBox
}

func (l *TripLineItem) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   l.ID,
		ResourceType: "trip_line_item",
	}
}

// TripFirearm records a firearm used during a trip.
type TripFirearm struct {
	ID          int    `json:"id" db:"id"`
	TripID      int    `json:"trip_id" db:"trip_id"`
	FirearmID   int    `json:"firearm_id" db:"firearm_id"`
	FirearmName string `json:"firearm_name,omitempty" db:"firearm_name"`
	RoundsFired int    `json:"rounds_fired" db:"rounds_fired"`
	Notes       string `json:"notes" db:"notes"`
}

// TripSummary aggregates a trip's line items.
type TripSummary struct {
	TripID          int            `json:"trip_id"`
	TotalBoxesOut   int            `json:"total_boxes_out"`
	TotalBoxesIn    int            `json:"total_boxes_in"`
	TotalRoundsUsed int            `json:"total_rounds_used"`
	ByCaliber       []CaliberTotal `json:"by_caliber"`
}
