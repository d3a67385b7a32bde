package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type BatchStatus string

const (
	BatchPending BatchStatus = "pending"
	BatchClaimed BatchStatus = "claimed"
	BatchExpired BatchStatus = "expired"
)

// MatchBatch is a proposed set of up to three mentor candidates for one
// student request. pending -> claimed and pending -> expired are the only
// transitions; both are terminal.
type MatchBatch struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID uuid.UUID   `gorm:"type:uuid;not null;index" json:"student_id"`
	Status    BatchStatus `gorm:"not null;index;column:status" json:"status"`
	ClaimedBy *uuid.UUID  `gorm:"type:uuid" json:"claimed_by,omitempty"`
	ClaimedAt *time.Time  `json:"claimed_at,omitempty"`
	ExpiresAt time.Time   `gorm:"not null;index" json:"expires_at"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Slots []MatchBatchSlot `gorm:"foreignKey:BatchID" json:"slots"`
}

func (MatchBatch) TableName() string { return "match_batch" }

// HasCandidate reports whether mentorID occupies one of the batch's slots.
func (b *MatchBatch) HasCandidate(mentorID uuid.UUID) bool {
	for _, s := range b.Slots {
		if s.MentorID == mentorID {
			return true
		}
	}
	return false
}

type MatchBatchSlot struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	BatchID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"batch_id"`
	MentorID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"mentor_id"`
	Position  int            `gorm:"not null;column:position" json:"position"`
	Score     float64        `gorm:"not null;column:score" json:"score"`
	Reasoning datatypes.JSON `gorm:"column:reasoning" json:"reasoning"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (MatchBatchSlot) TableName() string { return "match_batch_slot" }
