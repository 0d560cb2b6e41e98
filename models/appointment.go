package models

import "time"

// Appointment is a booked service slot owned by a user.
type Appointment struct {
	ID          string    `bson:"id" json:"id"`
	UserID      string    `bson:"user_id" json:"userId"`
	ServiceType string    `bson:"service_type" json:"serviceType"`
	Date        time.Time `bson:"date" json:"date"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}

// AppointmentInput is the body of POST /api/appointments.
type AppointmentInput struct {
	UserID      string `json:"userId" binding:"required"`
	ServiceType string `json:"serviceType" binding:"required"`
	Date        string `json:"date"`
}
