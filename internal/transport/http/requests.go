package http

import "time"

type findMatchesRequest struct {
	RequestID  *string  `json:"request_id" validate:"omitempty,uuid4"`
	BloodType  string   `json:"blood_type" validate:"required,blood_type"`
	Latitude   *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude  *float64 `json:"longitude" validate:"omitempty,longitude"`
	Urgency    string   `json:"urgency" validate:"omitempty,oneof=normal urgent emergency"`
	MaxResults int      `json:"max_results" validate:"omitempty,min=1,max=100"`
	UseAI      bool     `json:"use_ai"`
}

type createBloodRequestRequest struct {
	RequesterID  string     `json:"requester_id" validate:"required,min=1,max=100"`
	PatientName  string     `json:"patient_name" validate:"required,min=2,max=200"`
	BloodType    string     `json:"blood_type" validate:"required,blood_type"`
	UnitsNeeded  int        `json:"units_needed" validate:"omitempty,min=1,max=20"`
	Urgency      string     `json:"urgency" validate:"omitempty,oneof=normal urgent emergency"`
	HospitalName *string    `json:"hospital_name" validate:"omitempty,max=200"`
	City         string     `json:"city" validate:"required,min=1,max=100"`
	State        string     `json:"state" validate:"required,min=1,max=100"`
	ContactPhone string     `json:"contact_phone" validate:"required,min=5,max=20"`
	Latitude     *float64   `json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64   `json:"longitude" validate:"omitempty,longitude"`
	Notes        *string    `json:"notes" validate:"omitempty,max=1000"`
	RequiredBy   *time.Time `json:"required_by"`
}

type updateRequestStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active fulfilled cancelled"`
}

type setDonorAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}
