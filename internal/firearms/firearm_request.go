package firearms

import "time"

type FirearmRequest struct {
	Name          string     `json:"name" binding:"required"`
	Make          string     `json:"make" binding:"required"`
	Model         string     `json:"model" binding:"required"`
	Caliber       string     `json:"caliber" binding:"required"`
	Type          string     `json:"type" binding:"required"`
	SerialNumber  string     `json:"serial_number"`
	PurchaseDate  *time.Time `json:"purchase_date"`
	PurchasePrice *float64   `json:"purchase_price"`
	Notes         string     `json:"notes"`
	ImageURL      string     `json:"image_url"`
}

type UpdateFirearmRequest struct {
	Name          *string    `json:"name"`
	Make          *string    `json:"make"`
	Model         *string    `json:"model"`
	Caliber       *string    `json:"caliber"`
	Type          *string    `json:"type"`
	SerialNumber  *string    `json:"serial_number"`
	PurchaseDate  *time.Time `json:"purchase_date"`
	PurchasePrice *float64   `json:"purchase_price"`
	Notes         *string    `json:"notes"`
	Status        *string    `json:"status"`
	ImageURL      *string    `json:"image_url"`
}

func (r *UpdateFirearmRequest) HasChanges() bool {
	return r.Name != nil || r.Make != nil || r.Model != nil || r.Caliber != nil ||
		r.Type != nil || r.SerialNumber != nil || r.PurchaseDate != nil ||
		r.PurchasePrice != nil || r.Notes != nil || r.Status != nil ||
		r.ImageURL != nil
}
