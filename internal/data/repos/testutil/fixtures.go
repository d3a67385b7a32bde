package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/mentorbridge-backend/internal/domain"
)

func SeedStudent(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.StudentProfile {
	tb.Helper()
	s := &types.StudentProfile{
		ID:             uuid.New(),
		Name:           name,
		Major:          "Computer Science",
		Skills:         datatypes.JSON([]byte(`["go","sql"]`)),
		Goals:          "break into backend engineering",
		InMatchingPool: true,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed student: %v", err)
	}
	return s
}

func SeedMentor(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, maxMentees, currentMentees int) *types.MentorProfile {
	tb.Helper()
	m := &types.MentorProfile{
		ID:             uuid.New(),
		Name:           name,
		Industry:       "Software",
		Expertise:      datatypes.JSON([]byte(`["go","distributed systems"]`)),
		InMatchingPool: true,
		MaxMentees:     maxMentees,
		CurrentMentees: currentMentees,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed mentor: %v", err)
	}
	return m
}

func SeedBatch(tb testing.TB, ctx context.Context, tx *gorm.DB, studentID uuid.UUID, mentorIDs []uuid.UUID, ttl time.Duration) *types.MatchBatch {
	tb.Helper()
	now := time.Now()
	b := &types.MatchBatch{
		ID:        uuid.New(),
		StudentID: studentID,
		Status:    types.BatchPending,
		ExpiresAt: now.Add(ttl),
	}
	for i, mentorID := range mentorIDs {
		b.Slots = append(b.Slots, types.MatchBatchSlot{
			ID:       uuid.New(),
			BatchID:  b.ID,
			MentorID: mentorID,
			Position: i,
			Score:    90 - float64(i)*5,
		})
	}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed batch: %v", err)
	}
	return b
}

func SeedActiveMatch(tb testing.TB, ctx context.Context, tx *gorm.DB, studentID, mentorID uuid.UUID, matchedAt time.Time) *types.ActiveMatch {
	tb.Helper()
	m := &types.ActiveMatch{
		ID:         uuid.New(),
		StudentID:  studentID,
		MentorID:   mentorID,
		MatchScore: 88,
		Status:     types.MatchActive,
		MatchedAt:  matchedAt,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed active match: %v", err)
	}
	return m
}

func SeedMiniSession(tb testing.TB, ctx context.Context, tx *gorm.DB, studentID uuid.UUID, expiresAt time.Time) *types.MiniSessionRequest {
	tb.Helper()
	r := &types.MiniSessionRequest{
		ID:                       uuid.New(),
		StudentID:                studentID,
		Title:                    "resume review before career fair",
		SessionType:              types.SessionResumeReview,
		PreferredDurationMinutes: 30,
		Urgency:                  types.UrgencyNormal,
		Status:                   types.MiniSessionOpen,
		ExpiresAt:                expiresAt,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed mini session: %v", err)
	}
	return r
}
