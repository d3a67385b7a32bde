package minisession

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mentorbridge-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mentorbridge-backend/internal/domain"
)

func TestRequestClaimCASWindow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewRequestRepo(db, testutil.Logger(t))
	ctx := context.Background()

	student := testutil.SeedStudent(t, ctx, tx, "window student")
	open := testutil.SeedMiniSession(t, ctx, tx, student.ID, time.Now().Add(time.Hour))
	stale := testutil.SeedMiniSession(t, ctx, tx, student.ID, time.Now().Add(-time.Minute))

	mentorID := uuid.New()
	now := time.Now()

	won, err := repo.ClaimCAS(ctx, tx, open.ID, mentorID, now)
	if err != nil {
		t.Fatalf("claim open: %v", err)
	}
	if !won {
		t.Fatalf("claim inside the window should win")
	}

	// Second claim loses, even from the same mentor.
	won, err = repo.ClaimCAS(ctx, tx, open.ID, mentorID, now)
	if err != nil {
		t.Fatalf("re-claim: %v", err)
	}
	if won {
		t.Fatalf("claimed request must not be claimable again")
	}

	// Overdue requests are inert before the sweep flips them.
	won, err = repo.ClaimCAS(ctx, tx, stale.ID, mentorID, now)
	if err != nil {
		t.Fatalf("claim stale: %v", err)
	}
	if won {
		t.Fatalf("claim past expires_at should lose")
	}
}

func TestRequestTransitionCAS(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewRequestRepo(db, testutil.Logger(t))
	ctx := context.Background()

	student := testutil.SeedStudent(t, ctx, tx, "transition student")
	req := testutil.SeedMiniSession(t, ctx, tx, student.ID, time.Now().Add(time.Hour))
	now := time.Now()

	// claimed -> scheduled requires claimed first.
	moved, err := repo.TransitionCAS(ctx, tx, req.ID, types.MiniSessionClaimed, types.MiniSessionScheduled, now)
	if err != nil {
		t.Fatalf("premature transition: %v", err)
	}
	if moved {
		t.Fatalf("open request moved as if claimed")
	}

	if won, err := repo.ClaimCAS(ctx, tx, req.ID, uuid.New(), now); err != nil || !won {
		t.Fatalf("claim won=%v err=%v", won, err)
	}
	moved, err = repo.TransitionCAS(ctx, tx, req.ID, types.MiniSessionClaimed, types.MiniSessionScheduled, now)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if !moved {
		t.Fatalf("claimed request should schedule")
	}
}

func TestRequestListOpenFilters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewRequestRepo(db, testutil.Logger(t))
	ctx := context.Background()

	student := testutil.SeedStudent(t, ctx, tx, "filter student")
	visible := testutil.SeedMiniSession(t, ctx, tx, student.ID, time.Now().Add(time.Hour))
	testutil.SeedMiniSession(t, ctx, tx, student.ID, time.Now().Add(-time.Minute))

	now := time.Now()
	listed, err := repo.ListOpen(ctx, tx, ListFilter{}, now)
	if err != nil {
		t.Fatalf("list open: %v", err)
	}
	for _, r := range listed {
		if !r.ExpiresAt.After(now) {
			t.Fatalf("overdue request %s leaked into the open pool", r.ID)
		}
	}

	listed, err = repo.ListOpen(ctx, tx, ListFilter{Query: "career fair"}, now)
	if err != nil {
		t.Fatalf("list by text: %v", err)
	}
	found := false
	for _, r := range listed {
		if r.ID == visible.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("case-insensitive text match missed the seeded request")
	}

	listed, err = repo.ListOpen(ctx, tx, ListFilter{SessionType: types.SessionMockInterview}, now)
	if err != nil {
		t.Fatalf("list by type: %v", err)
	}
	for _, r := range listed {
		if r.SessionType != types.SessionMockInterview {
			t.Fatalf("type filter leaked %s", r.SessionType)
		}
	}
}

func TestRequestExpireOpenPast(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewRequestRepo(db, testutil.Logger(t))
	ctx := context.Background()

	student := testutil.SeedStudent(t, ctx, tx, "expiry student")
	overdue := testutil.SeedMiniSession(t, ctx, tx, student.ID, time.Now().Add(-time.Minute))
	fresh := testutil.SeedMiniSession(t, ctx, tx, student.ID, time.Now().Add(time.Hour))

	count, err := repo.ExpireOpenPast(ctx, tx, time.Now())
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if count < 1 {
		t.Fatalf("expired %d, want at least the overdue request", count)
	}

	reloaded, err := repo.GetByID(ctx, tx, overdue.ID)
	if err != nil {
		t.Fatalf("reload overdue: %v", err)
	}
	if reloaded.Status != types.MiniSessionExpired {
		t.Fatalf("overdue status = %s", reloaded.Status)
	}

	reloadedFresh, err := repo.GetByID(ctx, tx, fresh.ID)
	if err != nil {
		t.Fatalf("reload fresh: %v", err)
	}
	if reloadedFresh.Status != types.MiniSessionOpen {
		t.Fatalf("fresh status = %s, want open", reloadedFresh.Status)
	}
}
