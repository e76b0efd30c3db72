package models

import "time"

// Firearm is one entry in the user's GunSafe collection.
type Firearm struct {
	ID            int        `json:"id" db:"id"`
	UserID        *int       `json:"user_id,omitempty" db:"user_id"`
	Name          string     `json:"name" db:"name"`
	Make          string     `json:"make" db:"make"`
	Model         string     `json:"model" db:"model"`
	Caliber       string     `json:"caliber" db:"caliber"`
	Type          string     `json:"type" db:"firearm_type"`
	SerialNumber  string     `json:"serial_number" db:"serial_number"`
	PurchaseDate  *time.Time `json:"purchase_date,omitempty" db:"purchase_date"`
	PurchasePrice *float64   `json:"purchase_price,omitempty" db:"purchase_price"`
	Notes         string     `json:"notes" db:"notes"`
	Status        string     `json:"status" db:"status"`
	ImageURL      string     `json:"image_url" db:"image_url"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

func (f *Firearm) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   f.ID,
		ResourceType: "firearm",
	}
}
