package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================
// Event DTOs
// ============================================

type CreateEventRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	Date        string          `json:"date" binding:"required"`
	Time        string          `json:"time"`
	Latitude    *float64        `json:"latitude" binding:"required"`
	Longitude   *float64        `json:"longitude" binding:"required"`
	Hours       decimal.Decimal `json:"hours"`
	HoursType   string          `json:"hoursType" binding:"required"`
}

type EventResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Hours       string    `json:"hours"`
	HoursType   string    `json:"hoursType"`
	RsvpCount   int       `json:"rsvpCount"`
	Attending   int       `json:"attendingCount"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ============================================
// Attendance DTOs
// ============================================

// RsvpRequest is optional. An explicit email RSVPs on someone else's behalf.
type RsvpRequest struct {
	Email string `json:"email" binding:"omitempty,email"`
}

type CheckInRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	Accuracy  *float64 `json:"accuracy"`
}

type CheckInResponse struct {
	Message       string  `json:"message"`
	EventID       int64   `json:"eventId"`
	HoursType     string  `json:"hoursType"`
	HoursCredited string  `json:"hoursCredited"`
	NewTotal      string  `json:"newTotal"`
	Distance      float64 `json:"distance"`
}

type MemberAttendingRequest struct {
	EventID   int64  `json:"eventId" binding:"required"`
	UserEmail string `json:"userEmail" binding:"required,email"`
}

type AttendanceResponse struct {
	EventID   int64    `json:"eventId"`
	Rsvped    []string `json:"rsvped"`
	Attending []string `json:"attending"`
}

// ============================================
// Member DTOs
// ============================================

type MemberResponse struct {
	ID                int64  `json:"id"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	Rank              string `json:"rank"`
	Role              string `json:"role,omitempty"`
	DevelopmentHours  string `json:"developmentHours"`
	ProfessionalHours string `json:"professionalHours"`
	ServiceHours      string `json:"serviceHours"`
	SocialHours       string `json:"socialHours"`
}

type AdjustHoursRequest struct {
	HoursType string          `json:"hoursType" binding:"required"`
	Delta     decimal.Decimal `json:"delta"`
}

type SetRoleRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

// ============================================
// Common
// ============================================

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error    string   `json:"error"`
	Reason   string   `json:"reason,omitempty"`
	Role     string   `json:"role,omitempty"`
	Distance *float64 `json:"distance,omitempty"`
	Details  string   `json:"details,omitempty"`
}
