package model

import "time"

// StatusNew is the status every submitted request starts with
const StatusNew = "New"

// RequestCall is a pickup request submitted through the public form
type RequestCall struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Pickup       string    `json:"pickup"`
	DropLocation string    `json:"drop_location"`
	Cargo        string    `json:"cargo"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateRequestCallRequest is the body of POST /request-call.
// Only name and phone are required; the form sends the drop location as "drop".
type CreateRequestCallRequest struct {
	Name   string `json:"name" binding:"required"`
	Phone  string `json:"phone" binding:"required"`
	Pickup string `json:"pickup"`
	Drop   string `json:"drop"`
	Cargo  string `json:"cargo"`
}

// UpdateRequestCallStatusRequest is the body of PUT /admin/request/:id
type UpdateRequestCallStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
