package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mentorbridge-backend/internal/data/repos"
	"github.com/yungbote/mentorbridge-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mentorbridge-backend/internal/domain"
	domerrors "github.com/yungbote/mentorbridge-backend/internal/pkg/errors"
)

func newLifecycleForTest(t *testing.T) (LifecycleService, *gorm.DB, repos.MatchRepo) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	matches := repos.NewMatchRepo(db, log)
	feedback := repos.NewFeedbackRepo(db, log)
	mentors := repos.NewMentorRepo(db, log)
	return NewLifecycleService(log, db, matches, feedback, mentors, LifecycleConfig{}), db, matches
}

func TestCompleteReleasesMentorCapacity(t *testing.T) {
	lifecycle, db, _ := newLifecycleForTest(t)
	ctx := context.Background()

	student := testutil.SeedStudent(t, ctx, db, "finishing student")
	mentor := testutil.SeedMentor(t, ctx, db, "finishing mentor", 2, 1)
	match := testutil.SeedActiveMatch(t, ctx, db, student.ID, mentor.ID, time.Now().Add(-90*24*time.Hour))

	closed, err := lifecycle.Complete(ctx, match.ID, student.ID.String())
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if closed.Status != types.MatchCompleted {
		t.Fatalf("status = %s, want completed", closed.Status)
	}
	if closed.EndedAt == nil || closed.EndedBy == "" {
		t.Fatalf("terminal fields not set: %+v", closed)
	}
	if got := mentorMentees(t, db, mentor.ID); got != 0 {
		t.Fatalf("mentor mentees = %d, want slot released", got)
	}
}

func TestDissolveOnlyOnce(t *testing.T) {
	lifecycle, db, _ := newLifecycleForTest(t)
	ctx := context.Background()

	student := testutil.SeedStudent(t, ctx, db, "parting student")
	mentor := testutil.SeedMentor(t, ctx, db, "parting mentor", 2, 1)
	match := testutil.SeedActiveMatch(t, ctx, db, student.ID, mentor.ID, time.Now())

	if _, err := lifecycle.Dissolve(ctx, match.ID, "admin"); err != nil {
		t.Fatalf("dissolve: %v", err)
	}
	// A second close is a state conflict, and must not double-decrement.
	if _, err := lifecycle.Dissolve(ctx, match.ID, "admin"); !errors.Is(err, domerrors.ErrValidation) {
		t.Fatalf("second dissolve err = %v, want ErrValidation", err)
	}
	if got := mentorMentees(t, db, mentor.ID); got != 0 {
		t.Fatalf("mentor mentees = %d, want exactly one release", got)
	}
}

func TestEvaluatePersistsAnnotations(t *testing.T) {
	lifecycle, db, matches := newLifecycleForTest(t)
	ctx := context.Background()

	student := testutil.SeedStudent(t, ctx, db, "stale student")
	mentor := testutil.SeedMentor(t, ctx, db, "stale mentor", 3, 1)
	match := testutil.SeedActiveMatch(t, ctx, db, student.ID, mentor.ID, time.Now().Add(-40*24*time.Hour))

	report, err := lifecycle.Evaluate(ctx, match.ID)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !report.IsAtRisk {
		t.Fatalf("40 silent days should be at risk")
	}

	reloaded, err := matches.GetByID(ctx, nil, match.ID)
	if err != nil {
		t.Fatalf("reload match: %v", err)
	}
	if !reloaded.IsAtRisk || reloaded.AtRiskReason == nil || reloaded.HealthScore == nil {
		t.Fatalf("annotations not persisted: %+v", reloaded)
	}
	if *reloaded.HealthScore != report.HealthScore {
		t.Fatalf("stored health %d != reported %d", *reloaded.HealthScore, report.HealthScore)
	}

	// The monitor is advisory: the match itself stays active.
	if reloaded.Status != types.MatchActive {
		t.Fatalf("status = %s, evaluation must never close a match", reloaded.Status)
	}
}

func TestEvaluateUnknownMatch(t *testing.T) {
	lifecycle, _, _ := newLifecycleForTest(t)
	if _, err := lifecycle.Evaluate(context.Background(), uuid.New()); !errors.Is(err, domerrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
