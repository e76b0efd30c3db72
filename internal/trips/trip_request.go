package trips

import "time"

type CreateTripRequest struct {
	Name             string    `json:"name" binding:"required"`
	TripDate         time.Time `json:"trip_date"`
	Location         string    `json:"location"`
	Notes            string    `json:"notes"`
	Temperature      *float64  `json:"temperature"`
	WeatherCondition *string   `json:"weather_condition"`
	WindSpeed        *float64  `json:"wind_speed"`
	Humidity         *float64  `json:"humidity"`
}

type CheckoutRequest struct {
	StockItemID int `json:"stock_item_id" binding:"required"`
	Boxes       int `json:"boxes" binding:"required"`
}

type CheckinRequest struct {
	// Pointer so an explicit zero ("nothing came back") binds.
	BoxesReturned *int `json:"boxes_returned" binding:"required"`
}

type UpdateTripNotesRequest struct {
	Notes            *string  `json:"notes"`
	Temperature      *float64 `json:"temperature"`
	WeatherCondition *string  `json:"weather_condition"`
	WindSpeed        *float64 `json:"wind_speed"`
	Humidity         *float64 `json:"humidity"`
}

func (r *UpdateTripNotesRequest) HasChanges() bool {
	return r.Notes != nil || r.Temperature != nil || r.WeatherCondition != nil ||
		r.WindSpeed != nil || r.Humidity != nil
}

type FirearmUsageRequest struct {
	FirearmID   int    `json:"firearm_id" binding:"required"`
	RoundsFired int    `json:"rounds_fired"`
	Notes       string `json:"notes"`
}
