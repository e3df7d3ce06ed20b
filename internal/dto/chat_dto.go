package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	SessionId string    `json:"session_id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionSummaryResponse struct {
	SessionId      string    `json:"session_id"`
	Title          string    `json:"title"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

type SessionDetailResponse struct {
	SessionId string          `json:"session_id"`
	Title     string          `json:"title"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
	Turns     []*TurnResponse `json:"turns"`
}

type TurnResponse struct {
	Id        uuid.UUID           `json:"id"`
	Role      string              `json:"role"`
	Content   string              `json:"content"`
	CreatedAt time.Time           `json:"created_at"`
	Analysis  *AnalysisDTO        `json:"analysis,omitempty"`
	Progress  *ProgressSummaryDTO `json:"progress,omitempty"`
}

type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type SendMessageResponse struct {
	SessionId string              `json:"session_id"`
	Sent      *TurnResponse       `json:"sent"`
	Reply     *TurnResponse       `json:"reply"`
	Analysis  *AnalysisDTO        `json:"analysis"`
	Progress  *ProgressSummaryDTO `json:"progress"`
}

// AnalysisDTO mirrors the gateway's analysis object field for field.
type AnalysisDTO struct {
	EmotionalState      string   `json:"emotionalState"`
	Themes              []string `json:"themes"`
	RiskLevel           int      `json:"riskLevel"`
	RecommendedApproach string   `json:"recommendedApproach"`
	ProgressIndicators  []string `json:"progressIndicators"`
}

type ProgressSummaryDTO struct {
	EmotionalState string `json:"emotionalState"`
	RiskLevel      int    `json:"riskLevel"`
}
