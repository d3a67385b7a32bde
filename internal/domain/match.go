package domain

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchActive    MatchStatus = "active"
	MatchCompleted MatchStatus = "completed"
	MatchDissolved MatchStatus = "dissolved"
)

// ActiveMatch is created only by a successful batch claim. A student holds
// at most one active match; a mentor's active matches never exceed
// max_mentees. Health fields are advisory annotations, never a trigger for
// automatic dissolution.
type ActiveMatch struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"student_id"`
	MentorID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"mentor_id"`
	MatchScore float64     `gorm:"not null;column:match_score" json:"match_score"`
	Status     MatchStatus `gorm:"not null;index;column:status" json:"status"`
	MatchedAt  time.Time   `gorm:"not null" json:"matched_at"`

	LastMeetingAt *time.Time `json:"last_meeting_at,omitempty"`
	HealthScore   *int       `gorm:"column:health_score" json:"health_score,omitempty"`
	IsAtRisk      bool       `gorm:"not null;default:false;column:is_at_risk" json:"is_at_risk"`
	AtRiskReason  *string    `gorm:"column:at_risk_reason" json:"at_risk_reason,omitempty"`

	EndedAt *time.Time `json:"ended_at,omitempty"`
	EndedBy string     `gorm:"column:ended_by" json:"ended_by,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ActiveMatch) TableName() string { return "active_match" }
