package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mentorbridge-backend/internal/data/repos"
	"github.com/yungbote/mentorbridge-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mentorbridge-backend/internal/domain"
)

func TestSweepRetiresOverdueWork(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()

	batches := repos.NewBatchRepo(db, log)
	sessions := repos.NewMiniSessionRepo(db, log)
	matches := repos.NewMatchRepo(db, log)
	feedback := repos.NewFeedbackRepo(db, log)
	mentors := repos.NewMentorRepo(db, log)
	lifecycle := NewLifecycleService(log, db, matches, feedback, mentors, LifecycleConfig{})
	sweeper := NewSweeperService(log, nil, batches, sessions, lifecycle, SweeperConfig{})

	student := testutil.SeedStudent(t, ctx, db, "sweep student")
	mentor := testutil.SeedMentor(t, ctx, db, "sweep mentor", 3, 1)

	overdueBatch := testutil.SeedBatch(t, ctx, db, student.ID, []uuid.UUID{mentor.ID}, -time.Hour)
	freshStudent := testutil.SeedStudent(t, ctx, db, "fresh sweep student")
	freshBatch := testutil.SeedBatch(t, ctx, db, freshStudent.ID, []uuid.UUID{mentor.ID}, time.Hour)

	overdueSession := testutil.SeedMiniSession(t, ctx, db, student.ID, time.Now().Add(-time.Minute))
	staleMatch := testutil.SeedActiveMatch(t, ctx, db, freshStudent.ID, mentor.ID, time.Now().Add(-45*24*time.Hour))

	if err := sweeper.RunOnce(ctx); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	reloadedOverdue, err := batches.GetByID(ctx, nil, overdueBatch.ID)
	if err != nil {
		t.Fatalf("reload overdue batch: %v", err)
	}
	if reloadedOverdue.Status != types.BatchExpired {
		t.Fatalf("overdue batch status = %s, want expired", reloadedOverdue.Status)
	}

	reloadedFresh, err := batches.GetByID(ctx, nil, freshBatch.ID)
	if err != nil {
		t.Fatalf("reload fresh batch: %v", err)
	}
	if reloadedFresh.Status != types.BatchPending {
		t.Fatalf("fresh batch status = %s, want untouched pending", reloadedFresh.Status)
	}

	var reloadedSession types.MiniSessionRequest
	if err := db.Where("id = ?", overdueSession.ID).First(&reloadedSession).Error; err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if reloadedSession.Status != types.MiniSessionExpired {
		t.Fatalf("overdue session status = %s, want expired", reloadedSession.Status)
	}

	reloadedMatch, err := matches.GetByID(ctx, nil, staleMatch.ID)
	if err != nil {
		t.Fatalf("reload match: %v", err)
	}
	if !reloadedMatch.IsAtRisk || reloadedMatch.HealthScore == nil {
		t.Fatalf("health pass did not annotate the stale match: %+v", reloadedMatch)
	}
	if reloadedMatch.Status != types.MatchActive {
		t.Fatalf("sweep must never close matches, status = %s", reloadedMatch.Status)
	}
}
