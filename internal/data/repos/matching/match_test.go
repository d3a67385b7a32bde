package matching

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/mentorbridge-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mentorbridge-backend/internal/domain"
)

func TestMatchTouchLastMeetingForwardOnly(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewMatchRepo(db, testutil.Logger(t))
	ctx := context.Background()

	student := testutil.SeedStudent(t, ctx, tx, "touch student")
	mentor := testutil.SeedMentor(t, ctx, tx, "touch mentor", 3, 1)
	match := testutil.SeedActiveMatch(t, ctx, tx, student.ID, mentor.ID, time.Now().Add(-30*24*time.Hour))

	recent := time.Now().Add(-time.Hour).Truncate(time.Microsecond)
	older := recent.Add(-48 * time.Hour).Truncate(time.Microsecond)

	if err := repo.TouchLastMeeting(ctx, tx, match.ID, recent); err != nil {
		t.Fatalf("touch: %v", err)
	}

	// Backfilled meetings must not rewind the contact marker.
	if err := repo.TouchLastMeeting(ctx, tx, match.ID, older); err != nil {
		t.Fatalf("touch older: %v", err)
	}

	reloaded, err := repo.GetByID(ctx, tx, match.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.LastMeetingAt == nil || !reloaded.LastMeetingAt.Equal(recent) {
		t.Fatalf("last_meeting_at = %v, want %v", reloaded.LastMeetingAt, recent)
	}
}

func TestMatchCloseCASOnlyActive(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewMatchRepo(db, testutil.Logger(t))
	ctx := context.Background()

	student := testutil.SeedStudent(t, ctx, tx, "close student")
	mentor := testutil.SeedMentor(t, ctx, tx, "close mentor", 3, 1)
	match := testutil.SeedActiveMatch(t, ctx, tx, student.ID, mentor.ID, time.Now())

	closed, err := repo.CloseCAS(ctx, tx, match.ID, types.MatchCompleted, "mentor", time.Now())
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if !closed {
		t.Fatalf("active match should close")
	}

	closed, err = repo.CloseCAS(ctx, tx, match.ID, types.MatchDissolved, "admin", time.Now())
	if err != nil {
		t.Fatalf("re-close: %v", err)
	}
	if closed {
		t.Fatalf("closed match must not close twice")
	}

	reloaded, err := repo.GetByID(ctx, tx, match.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != types.MatchCompleted {
		t.Fatalf("status = %s, want completed from the first close", reloaded.Status)
	}
	if reloaded.EndedAt == nil || reloaded.EndedBy != "mentor" {
		t.Fatalf("ended_at/ended_by not recorded: %+v", reloaded)
	}
}
