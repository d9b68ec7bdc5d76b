package dto

// ChatMessage is one earlier turn of the symptom conversation
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required,max=4000"`
}

// SymptomContext carries the symptoms a follow-up question refers to
type SymptomContext struct {
	OriginalSymptoms string `json:"original_symptoms" validate:"omitempty,max=2000"`
}

type SymptomSearchRequest struct {
	Query   string          `json:"query" validate:"required,max=2000"`
	History []ChatMessage   `json:"history" validate:"omitempty,max=20,dive"`
	Level   string          `json:"level" validate:"omitempty,max=32"`
	Context *SymptomContext `json:"context" validate:"omitempty"`
}

type SymptomSearchResponse struct {
	Response         string `json:"response"`
	QueryType        string `json:"query_type"`
	Level            string `json:"level"`
	RequiresFollowUp bool   `json:"requires_follow_up"`
	NotTrained       bool   `json:"not_trained"`
	AskingLocation   bool   `json:"asking_location"`
}
