package dto

import "strings"

// PostMessageRequest: POST /api/communication/messages
type PostMessageRequest struct {
	AppointmentID string `json:"appointmentId"`
	Content       string `json:"content" validate:"max=4000"`
}

func (r *PostMessageRequest) Normalize() {
	r.AppointmentID = strings.TrimSpace(r.AppointmentID)
	r.Content = strings.TrimSpace(r.Content)
}
