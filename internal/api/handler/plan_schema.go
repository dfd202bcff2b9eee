package handler

import "time"

type createPlanRequest struct {
	Name         string  `json:"name"          validate:"required"`
	Price        float64 `json:"price"         validate:"gte=0"`
	DurationDays int     `json:"duration_days" validate:"required,gt=0"`
}

type updatePlanRequest struct {
	Name         string  `json:"name"          validate:"required"`
	Price        float64 `json:"price"         validate:"gte=0"`
	DurationDays int     `json:"duration_days" validate:"required,gt=0"`
}

// planResponse is the transport view of a plan. Admin responses include the
// active flag; the public catalog only ever contains active plans.
type planResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	DurationDays int       `json:"duration_days"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

type listPlansResponse struct {
	Data []planResponse `json:"data"`
}
