package accident

import (
	"time"

	"accident-service/internal/geo"
	"accident-service/internal/responder"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	// StatusReported is written by older clients; it behaves like StatusAwaitingConfirmation.
	StatusReported             Status = "reported"
	StatusAwaitingConfirmation Status = "awaiting_confirmation"
	StatusCancelled            Status = "cancelled"
	StatusActive               Status = "active"
	StatusAccepted             Status = "accepted"
)

type Location struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lon float64 `bson:"lon" json:"lon"`
}

type Accident struct {
	ID                 primitive.ObjectID `bson:"_id" json:"id"`
	UserID             string             `bson:"user_id" json:"user_id"`
	Name               string             `bson:"name" json:"name"`
	Location           Location           `bson:"location" json:"location"`
	Status             Status             `bson:"status" json:"status"`
	RespondingHospital string             `bson:"responding_hospital,omitempty" json:"responding_hospital,omitempty"`
	HospitalPhone      string             `bson:"hospital_phone,omitempty" json:"hospital_phone,omitempty"`

	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
	ActivatedAt *time.Time `bson:"activated_at,omitempty" json:"activated_at,omitempty"`
	CancelledAt *time.Time `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
	AcceptedAt  *time.Time `bson:"accepted_at,omitempty" json:"accepted_at,omitempty"`
}

// Transition is a guarded status change: it applies only while the stored
// status is one of From.
type Transition struct {
	From               []Status
	To                 Status
	RespondingHospital string
	HospitalPhone      string
}

// FanoutSummary counts delivery attempts of one alert fan-out.
type FanoutSummary struct {
	Attempted int `json:"attempted"`
	Delivered int `json:"delivered"`
	Skipped   int `json:"skipped"`
}

type TriggerResult struct {
	AccidentID string         `json:"accident_id"`
	Status     Status         `json:"status"`
	Dispatched bool           `json:"dispatched"`
	MapURL     string         `json:"map_url"`
	Summary    *FanoutSummary `json:"summary,omitempty"`
}

type LocationOverview struct {
	Address         string             `json:"accident_location"`
	NearestHospital *responder.Contact `json:"nearest_hospital"`
	Route           *geo.Route         `json:"route"`
}
