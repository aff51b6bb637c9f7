package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rafaelmaranon/Availo/common/request"
	"github.com/rafaelmaranon/Availo/common/response"
	"github.com/rafaelmaranon/Availo/internal/models"
)

type CreateSeekingRequest struct {
	DriverName            string   `json:"driver_name" validate:"required"`
	Destination           string   `json:"destination" validate:"required"`
	ArrivalTimeEstimate   string   `json:"arrival_time_estimate" validate:"required"`
	ParkingDurationNeeded string   `json:"parking_duration_needed" validate:"required"`
	VoiceMessage          string   `json:"voice_message"`
	Requirements          string   `json:"requirements"`
	Lat                   *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng                   *float64 `json:"lng" validate:"omitempty,longitude"`
}

type CreateOfferingRequest struct {
	DriverName          string   `json:"driver_name" validate:"required"`
	LocationDescription string   `json:"location_description" validate:"required"`
	CarBrand            string   `json:"car_brand" validate:"required"`
	CarColor            string   `json:"car_color" validate:"required"`
	EstimatedLeaveTime  string   `json:"estimated_leave_time" validate:"required"`
	ExactLocationKnown  bool     `json:"exact_location_known"`
	VoiceMessage        string   `json:"voice_message"`
	Lat                 *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng                 *float64 `json:"lng" validate:"omitempty,longitude"`
}

type StartNegotiationRequest struct {
	SeekerID     string `json:"seeker_id" validate:"required"`
	OffererID    string `json:"offerer_id" validate:"required"`
	Sender       string `json:"sender" validate:"required,oneof=seeker offerer"`
	Message      string `json:"message" validate:"required"`
	VoiceMessage string `json:"voice_message"`
}

type AddMessageRequest struct {
	NegotiationID string `json:"negotiation_id" validate:"required"`
	Sender        string `json:"sender" validate:"required,oneof=seeker offerer"`
	Message       string `json:"message" validate:"required"`
	VoiceMessage  string `json:"voice_message"`
}

type UpdateNegotiationStatusRequest struct {
	NegotiationID string `json:"negotiation_id" validate:"required"`
	Status        string `json:"status" validate:"required,oneof=pending accepted declined completed"`
}

func (app *Config) CreateSeeking(w http.ResponseWriter, r *http.Request) {
	var req CreateSeekingRequest
	err := request.ReadAndValidate(w, r, &req)
	if request.HandleError(w, err) {
		return
	}

	record := models.SeekingRequest{
		DriverName:            req.DriverName,
		Destination:           req.Destination,
		ArrivalTimeEstimate:   req.ArrivalTimeEstimate,
		ParkingDurationNeeded: req.ParkingDurationNeeded,
		VoiceMessage:          req.VoiceMessage,
		Requirements:          req.Requirements,
		Lat:                   req.Lat,
		Lng:                   req.Lng,
		Status:                models.SeekingStatusSeeking,
		CreatedAt:             time.Now().UnixMilli(),
	}

	id, err := app.Repo.InsertSeeking(r.Context(), record)
	if err != nil {
		response.FromError(w, err)
		return
	}
	record.ID = id

	app.trackSeeking(r, record)
	app.publishEvent("seeker.created", id)

	response.Created(w, "Seeking request created", map[string]interface{}{"id": id})
}

func (app *Config) GetSeekingDrivers(w http.ResponseWriter, r *http.Request) {
	records, err := app.Repo.ListSeeking(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	seeking := make([]models.SeekingRequest, 0, len(records))
	for _, rec := range records {
		if rec.Status == models.SeekingStatusSeeking {
			seeking = append(seeking, rec)
		}
	}

	response.Success(w, "Seeking drivers retrieved", seeking)
}

func (app *Config) CreateOffering(w http.ResponseWriter, r *http.Request) {
	var req CreateOfferingRequest
	err := request.ReadAndValidate(w, r, &req)
	if request.HandleError(w, err) {
		return
	}

	record := models.OfferingRequest{
		DriverName:          req.DriverName,
		LocationDescription: req.LocationDescription,
		CarBrand:            req.CarBrand,
		CarColor:            req.CarColor,
		EstimatedLeaveTime:  req.EstimatedLeaveTime,
		ExactLocationKnown:  req.ExactLocationKnown,
		VoiceMessage:        req.VoiceMessage,
		Lat:                 req.Lat,
		Lng:                 req.Lng,
		Status:              models.OfferingStatusPreparing,
		CreatedAt:           time.Now().UnixMilli(),
	}

	id, err := app.Repo.InsertOffering(r.Context(), record)
	if err != nil {
		response.FromError(w, err)
		return
	}
	record.ID = id

	app.trackOffering(r, record)
	app.publishEvent("offerer.created", id)

	response.Created(w, "Offering created", map[string]interface{}{"id": id})
}

func (app *Config) GetOfferingDrivers(w http.ResponseWriter, r *http.Request) {
	records, err := app.Repo.ListOffering(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	offering := make([]models.OfferingRequest, 0, len(records))
	for _, rec := range records {
		if rec.Status != models.OfferingStatusCompleted {
			offering = append(offering, rec)
		}
	}

	response.Success(w, "Offering drivers retrieved", offering)
}

func (app *Config) GetMatches(w http.ResponseWriter, r *http.Request) {
	response.Success(w, "Matches retrieved", app.Matcher.Matches())
}

func (app *Config) StartNegotiation(w http.ResponseWriter, r *http.Request) {
	var req StartNegotiationRequest
	err := request.ReadAndValidate(w, r, &req)
	if request.HandleError(w, err) {
		return
	}

	neg, err := app.Negotiations.Start(r.Context(), req.SeekerID, req.OffererID, req.Sender, req.Message, req.VoiceMessage)
	if err != nil {
		response.FromError(w, err)
		return
	}

	app.publishEvent("negotiation.started", neg.ID)

	response.Created(w, "Negotiation started", neg)
}

func (app *Config) AddNegotiationMessage(w http.ResponseWriter, r *http.Request) {
	var req AddMessageRequest
	err := request.ReadAndValidate(w, r, &req)
	if request.HandleError(w, err) {
		return
	}

	msg, err := app.Negotiations.AddMessage(r.Context(), req.NegotiationID, req.Sender, req.Message, req.VoiceMessage)
	if err != nil {
		response.FromError(w, err)
		return
	}

	app.publishEvent("negotiation.message", req.NegotiationID)

	response.Success(w, "Message added", msg)
}

func (app *Config) GetNegotiationsForDriver(w http.ResponseWriter, r *http.Request) {
	driverID := chi.URLParam(r, "driver_id")
	role := chi.URLParam(r, "role")

	negotiations, err := app.Negotiations.ListForDriver(r.Context(), driverID, role)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, "Negotiations retrieved", negotiations)
}

func (app *Config) UpdateNegotiationStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateNegotiationStatusRequest
	err := request.ReadAndValidate(w, r, &req)
	if request.HandleError(w, err) {
		return
	}

	neg, err := app.Negotiations.UpdateStatus(r.Context(), req.NegotiationID, models.NegotiationStatus(req.Status))
	if err != nil {
		response.FromError(w, err)
		return
	}

	app.publishEvent("negotiation.statusChanged", neg.ID+":"+req.Status)

	response.Success(w, "Negotiation status updated", neg)
}

func (app *Config) NearbyOfferings(w http.ResponseWriter, r *http.Request) {
	if app.Locations == nil {
		response.ServiceUnavailable(w, "nearby lookups are disabled")
		return
	}

	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		response.BadRequest(w, "invalid lat")
		return
	}
	lng, err := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if err != nil {
		response.BadRequest(w, "invalid lng")
		return
	}

	radiusKm := 2.0
	if raw := r.URL.Query().Get("radius"); raw != "" {
		if radiusKm, err = strconv.ParseFloat(raw, 64); err != nil {
			response.BadRequest(w, "invalid radius")
			return
		}
	}
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			response.BadRequest(w, "invalid limit")
			return
		}
	}

	spots, err := app.Locations.NearbyOfferings(r.Context(), lat, lng, radiusKm, limit)
	if err != nil {
		response.InternalServerError(w, err.Error())
		return
	}

	response.Success(w, "Nearby spots retrieved", spots)
}

func (app *Config) SeedDemoData(w http.ResponseWriter, r *http.Request) {
	result, err := app.Seeder.Run(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, "Demo data seeded", result)
}
