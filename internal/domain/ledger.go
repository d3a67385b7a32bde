package domain

import (
	"time"

	"github.com/google/uuid"
)

type MeetingType string

const (
	MeetingVirtual  MeetingType = "virtual"
	MeetingInPerson MeetingType = "in-person"
	MeetingPhone    MeetingType = "phone"
	MeetingEmail    MeetingType = "email"
)

func (t MeetingType) Valid() bool {
	switch t {
	case MeetingVirtual, MeetingInPerson, MeetingPhone, MeetingEmail:
		return true
	default:
		return false
	}
}

// MeetingLog is append-only. Corrections are new entries.
type MeetingLog struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	MatchID         uuid.UUID   `gorm:"type:uuid;not null;index" json:"match_id"`
	MeetingDate     time.Time   `gorm:"not null" json:"meeting_date"`
	DurationMinutes int         `gorm:"not null;column:duration_minutes" json:"duration_minutes"`
	MeetingType     MeetingType `gorm:"not null;column:meeting_type" json:"meeting_type"`
	Agenda          string      `gorm:"column:agenda" json:"agenda"`
	Notes           string      `gorm:"column:notes" json:"notes"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (MeetingLog) TableName() string { return "meeting_log" }

type FeedbackType string

const (
	FeedbackGeneral      FeedbackType = "general"
	FeedbackMatchQuality FeedbackType = "match-quality"
	FeedbackSession      FeedbackType = "session"
	FeedbackFinal        FeedbackType = "final"
)

func (t FeedbackType) Valid() bool {
	switch t {
	case FeedbackGeneral, FeedbackMatchQuality, FeedbackSession, FeedbackFinal:
		return true
	default:
		return false
	}
}

// Feedback is append-only. Ratings feed the lifecycle monitor.
type Feedback struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	MatchID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"match_id"`
	Rating       int          `gorm:"not null;column:rating" json:"rating"`
	Comment      string       `gorm:"column:comment" json:"comment"`
	FeedbackType FeedbackType `gorm:"not null;column:feedback_type" json:"feedback_type"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Feedback) TableName() string { return "feedback" }
