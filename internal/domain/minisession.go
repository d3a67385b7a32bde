package domain

import (
	"time"

	"github.com/google/uuid"
)

type MiniSessionStatus string

const (
	MiniSessionOpen      MiniSessionStatus = "open"
	MiniSessionClaimed   MiniSessionStatus = "claimed"
	MiniSessionScheduled MiniSessionStatus = "scheduled"
	MiniSessionCompleted MiniSessionStatus = "completed"
	MiniSessionExpired   MiniSessionStatus = "expired"
)

type SessionType string

const (
	SessionResumeReview  SessionType = "resume-review"
	SessionCareerAdvice  SessionType = "career-advice"
	SessionMockInterview SessionType = "mock-interview"
	SessionTechnicalHelp SessionType = "technical-help"
	SessionGeneral       SessionType = "general"
)

func (t SessionType) Valid() bool {
	switch t {
	case SessionResumeReview, SessionCareerAdvice, SessionMockInterview, SessionTechnicalHelp, SessionGeneral:
		return true
	default:
		return false
	}
}

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
	UrgencyUrgent Urgency = "urgent"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyNormal, UrgencyHigh, UrgencyUrgent:
		return true
	default:
		return false
	}
}

// ValidMiniSessionDuration reports whether d is one of the offered lengths.
func ValidMiniSessionDuration(d int) bool {
	return d == 30 || d == 45 || d == 60
}

// MiniSessionRequest is an ad-hoc session posted to the open pool. Claiming
// is first-wins and does not touch long-term mentor capacity.
type MiniSessionRequest struct {
	ID                       uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID                uuid.UUID         `gorm:"type:uuid;not null;index" json:"student_id"`
	Title                    string            `gorm:"not null;column:title" json:"title"`
	Description              string            `gorm:"column:description" json:"description"`
	SessionType              SessionType       `gorm:"not null;column:session_type" json:"session_type"`
	PreferredDurationMinutes int               `gorm:"not null;column:preferred_duration_minutes" json:"preferred_duration_minutes"`
	Urgency                  Urgency           `gorm:"not null;column:urgency" json:"urgency"`
	PreferredDateStart       *time.Time        `json:"preferred_date_start,omitempty"`
	PreferredDateEnd         *time.Time        `json:"preferred_date_end,omitempty"`
	Status                   MiniSessionStatus `gorm:"not null;index;column:status" json:"status"`
	ClaimedByMentorID        *uuid.UUID        `gorm:"type:uuid" json:"claimed_by_mentor_id,omitempty"`
	ClaimedAt                *time.Time        `json:"claimed_at,omitempty"`
	ExpiresAt                time.Time         `gorm:"not null;index" json:"expires_at"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (MiniSessionRequest) TableName() string { return "mini_session_request" }
