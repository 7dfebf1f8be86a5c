package dto

import (
	"encoding/json"
	"time"
)

type CreateReportRequest struct {
	Name    string          `json:"name" validate:"required,max=200"`
	Type    string          `json:"type" validate:"omitempty,oneof=spend renewal health"`
	Filters json.RawMessage `json:"filters"`
}

type UpdateReportRequest struct {
	Name    *string         `json:"name" validate:"omitempty,max=200"`
	Type    *string         `json:"type" validate:"omitempty,oneof=spend renewal health"`
	Filters json.RawMessage `json:"filters"`
}

type ReportResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Filters   json.RawMessage `json:"filters"`
	Company   string          `json:"company"`
	CreatedBy string          `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// UpdatePreferencesRequest replaces the user's dashboard document.
type UpdatePreferencesRequest struct {
	Dashboard json.RawMessage `json:"dashboard" validate:"required"`
}

type PreferencesResponse struct {
	Dashboard json.RawMessage `json:"dashboard"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}
