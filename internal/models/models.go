package models

// Record kinds, named after the original tables.
const (
	KindSeeking     = "drivers_seeking"
	KindOffering    = "drivers_offering"
	KindNegotiation = "negotiations"
)

type SeekingStatus string

const (
	SeekingStatusSeeking   SeekingStatus = "seeking"
	SeekingStatusMatched   SeekingStatus = "matched"
	SeekingStatusCompleted SeekingStatus = "completed"
)

type OfferingStatus string

const (
	OfferingStatusPreparing OfferingStatus = "preparing"
	OfferingStatusReady     OfferingStatus = "ready"
	OfferingStatusMatched   OfferingStatus = "matched"
	OfferingStatusCompleted OfferingStatus = "completed"
)

type NegotiationStatus string

const (
	NegotiationStatusPending   NegotiationStatus = "pending"
	NegotiationStatusAccepted  NegotiationStatus = "accepted"
	NegotiationStatusDeclined  NegotiationStatus = "declined"
	NegotiationStatusCompleted NegotiationStatus = "completed"
)

// Sender roles on a negotiation message.
const (
	RoleSeeker  = "seeker"
	RoleOfferer = "offerer"
)

// SeekingRequest is a driver's request for a parking spot.
// DriverName and Destination are immutable after creation; only Status
// changes over the record's lifetime.
type SeekingRequest struct {
	ID                    string        `json:"id" bson:"_id,omitempty"`
	DriverName            string        `json:"driver_name" bson:"driver_name"`
	Destination           string        `json:"destination" bson:"destination"`
	ArrivalTimeEstimate   string        `json:"arrival_time_estimate" bson:"arrival_time_estimate"`
	ParkingDurationNeeded string        `json:"parking_duration_needed" bson:"parking_duration_needed"`
	VoiceMessage          string        `json:"voice_message,omitempty" bson:"voice_message,omitempty"`
	Requirements          string        `json:"requirements,omitempty" bson:"requirements,omitempty"`
	Lat                   *float64      `json:"lat,omitempty" bson:"lat,omitempty"`
	Lng                   *float64      `json:"lng,omitempty" bson:"lng,omitempty"`
	Status                SeekingStatus `json:"status" bson:"status"`
	CreatedAt             int64         `json:"created_at" bson:"created_at"`
}

// OfferingRequest is a driver's announcement of a soon-to-be-vacated spot.
type OfferingRequest struct {
	ID                  string         `json:"id" bson:"_id,omitempty"`
	DriverName          string         `json:"driver_name" bson:"driver_name"`
	LocationDescription string         `json:"location_description" bson:"location_description"`
	CarBrand            string         `json:"car_brand" bson:"car_brand"`
	CarColor            string         `json:"car_color" bson:"car_color"`
	EstimatedLeaveTime  string         `json:"estimated_leave_time" bson:"estimated_leave_time"`
	ExactLocationKnown  bool           `json:"exact_location_known" bson:"exact_location_known"`
	VoiceMessage        string         `json:"voice_message,omitempty" bson:"voice_message,omitempty"`
	Lat                 *float64       `json:"lat,omitempty" bson:"lat,omitempty"`
	Lng                 *float64       `json:"lng,omitempty" bson:"lng,omitempty"`
	Status              OfferingStatus `json:"status" bson:"status"`
	CreatedAt           int64          `json:"created_at" bson:"created_at"`
}

// Message is owned by its parent Negotiation and has no independent
// lifecycle. Timestamp is assigned at append time, in milliseconds.
type Message struct {
	Sender       string `json:"sender" bson:"sender"`
	Message      string `json:"message" bson:"message"`
	VoiceMessage string `json:"voice_message,omitempty" bson:"voice_message,omitempty"`
	Timestamp    int64  `json:"timestamp" bson:"timestamp"`
}

// Negotiation is an append-only conversation thread binding one seeker and
// one offerer. Messages are ordered by insertion.
type Negotiation struct {
	ID        string            `json:"id" bson:"_id,omitempty"`
	SeekerID  string            `json:"seeker_id" bson:"seeker_id"`
	OffererID string            `json:"offerer_id" bson:"offerer_id"`
	Status    NegotiationStatus `json:"status" bson:"status"`
	Messages  []Message         `json:"messages" bson:"messages"`
	CreatedAt int64             `json:"created_at" bson:"created_at"`
}
