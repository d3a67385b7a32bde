package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mentorbridge-backend/internal/data/repos"
	"github.com/yungbote/mentorbridge-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mentorbridge-backend/internal/domain"
	domerrors "github.com/yungbote/mentorbridge-backend/internal/pkg/errors"
)

func newArbiterForTest(t *testing.T) (ArbiterService, *gorm.DB, repos.BatchRepo, repos.MatchRepo, repos.MentorRepo) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	batches := repos.NewBatchRepo(db, log)
	matches := repos.NewMatchRepo(db, log)
	mentors := repos.NewMentorRepo(db, log)
	return NewArbiterService(log, db, batches, matches, mentors), db, batches, matches, mentors
}

func mentorMentees(t *testing.T, db *gorm.DB, mentorID uuid.UUID) int {
	t.Helper()
	var m types.MentorProfile
	if err := db.Where("id = ?", mentorID).First(&m).Error; err != nil {
		t.Fatalf("load mentor: %v", err)
	}
	return m.CurrentMentees
}

func TestClaimExactlyOneWinner(t *testing.T) {
	arbiter, db, batches, matches, _ := newArbiterForTest(t)
	ctx := context.Background()

	student := testutil.SeedStudent(t, ctx, db, "race student")
	mentorIDs := make([]uuid.UUID, 0, 3)
	for _, name := range []string{"racer a", "racer b", "racer c"} {
		mentorIDs = append(mentorIDs, testutil.SeedMentor(t, ctx, db, name, 3, 0).ID)
	}
	batch := testutil.SeedBatch(t, ctx, db, student.ID, mentorIDs, time.Hour)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		wins   int
		losses int
	)
	for _, mentorID := range mentorIDs {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := arbiter.Claim(ctx, batch.ID, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, domerrors.ErrAlreadyClaimed):
				losses++
			default:
				t.Errorf("unexpected claim error: %v", err)
			}
		}(mentorID)
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("wins = %d, want exactly 1", wins)
	}
	if losses != len(mentorIDs)-1 {
		t.Fatalf("losses = %d, want %d", losses, len(mentorIDs)-1)
	}

	reloaded, err := batches.GetByID(ctx, nil, batch.ID)
	if err != nil {
		t.Fatalf("reload batch: %v", err)
	}
	if reloaded.Status != types.BatchClaimed || reloaded.ClaimedBy == nil {
		t.Fatalf("batch status = %s claimed_by = %v, want claimed by winner", reloaded.Status, reloaded.ClaimedBy)
	}

	// Capacity moved for the winner only, and exactly one match exists.
	total := 0
	for _, id := range mentorIDs {
		total += mentorMentees(t, db, id)
	}
	if total != 1 {
		t.Fatalf("total mentee increments = %d, want 1", total)
	}
	active, err := matches.GetActiveByStudent(ctx, nil, student.ID)
	if err != nil {
		t.Fatalf("load active match: %v", err)
	}
	if active == nil || active.MentorID != *reloaded.ClaimedBy {
		t.Fatalf("active match = %+v, want one for the claiming mentor", active)
	}
}

func TestClaimAtCapacityLeavesBatchPending(t *testing.T) {
	arbiter, db, batches, _, _ := newArbiterForTest(t)
	ctx := context.Background()

	student := testutil.SeedStudent(t, ctx, db, "capacity student")
	full := testutil.SeedMentor(t, ctx, db, "full mentor", 2, 2)
	open := testutil.SeedMentor(t, ctx, db, "open mentor", 2, 0)
	batch := testutil.SeedBatch(t, ctx, db, student.ID, []uuid.UUID{full.ID, open.ID}, time.Hour)

	if _, err := arbiter.Claim(ctx, batch.ID, full.ID); !errors.Is(err, domerrors.ErrAtCapacity) {
		t.Fatalf("claim by full mentor err = %v, want ErrAtCapacity", err)
	}
	if got := mentorMentees(t, db, full.ID); got != 2 {
		t.Fatalf("full mentor mentees = %d, want unchanged 2", got)
	}

	reloaded, err := batches.GetByID(ctx, nil, batch.ID)
	if err != nil {
		t.Fatalf("reload batch: %v", err)
	}
	if reloaded.Status != types.BatchPending {
		t.Fatalf("batch status = %s, want still pending", reloaded.Status)
	}

	// Remaining slot is still claimable.
	match, err := arbiter.Claim(ctx, batch.ID, open.ID)
	if err != nil {
		t.Fatalf("claim by open mentor: %v", err)
	}
	if match.MentorID != open.ID {
		t.Fatalf("match mentor = %s, want %s", match.MentorID, open.ID)
	}
}

func TestClaimNotACandidate(t *testing.T) {
	arbiter, db, _, _, _ := newArbiterForTest(t)
	ctx := context.Background()

	student := testutil.SeedStudent(t, ctx, db, "outsider student")
	inBatch := testutil.SeedMentor(t, ctx, db, "in batch", 3, 0)
	outsider := testutil.SeedMentor(t, ctx, db, "outsider", 3, 0)
	batch := testutil.SeedBatch(t, ctx, db, student.ID, []uuid.UUID{inBatch.ID}, time.Hour)

	if _, err := arbiter.Claim(ctx, batch.ID, outsider.ID); !errors.Is(err, domerrors.ErrNotACandidate) {
		t.Fatalf("err = %v, want ErrNotACandidate", err)
	}
}

func TestClaimExpiredBatch(t *testing.T) {
	arbiter, db, batches, _, _ := newArbiterForTest(t)
	ctx := context.Background()

	student := testutil.SeedStudent(t, ctx, db, "late student")
	mentor := testutil.SeedMentor(t, ctx, db, "late mentor", 3, 0)
	batch := testutil.SeedBatch(t, ctx, db, student.ID, []uuid.UUID{mentor.ID}, -time.Hour)

	if _, err := arbiter.Claim(ctx, batch.ID, mentor.ID); !errors.Is(err, domerrors.ErrExpired) {
		t.Fatalf("err = %v, want ErrExpired", err)
	}
	if got := mentorMentees(t, db, mentor.ID); got != 0 {
		t.Fatalf("mentor mentees = %d, want 0 after rejected claim", got)
	}

	// Overdue pending batch is retired on sight.
	reloaded, err := batches.GetByID(ctx, nil, batch.ID)
	if err != nil {
		t.Fatalf("reload batch: %v", err)
	}
	if reloaded.Status != types.BatchExpired {
		t.Fatalf("batch status = %s, want expired", reloaded.Status)
	}
}

func TestClaimClaimedBatch(t *testing.T) {
	arbiter, db, _, _, _ := newArbiterForTest(t)
	ctx := context.Background()

	student := testutil.SeedStudent(t, ctx, db, "double student")
	first := testutil.SeedMentor(t, ctx, db, "first mentor", 3, 0)
	second := testutil.SeedMentor(t, ctx, db, "second mentor", 3, 0)
	batch := testutil.SeedBatch(t, ctx, db, student.ID, []uuid.UUID{first.ID, second.ID}, time.Hour)

	if _, err := arbiter.Claim(ctx, batch.ID, first.ID); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if _, err := arbiter.Claim(ctx, batch.ID, second.ID); !errors.Is(err, domerrors.ErrAlreadyClaimed) {
		t.Fatalf("second claim err = %v, want ErrAlreadyClaimed", err)
	}
	// The winner re-claiming is a conflict too.
	if _, err := arbiter.Claim(ctx, batch.ID, first.ID); !errors.Is(err, domerrors.ErrAlreadyClaimed) {
		t.Fatalf("repeat claim err = %v, want ErrAlreadyClaimed", err)
	}
}

func TestClaimStudentAlreadyMatched(t *testing.T) {
	arbiter, db, batches, _, _ := newArbiterForTest(t)
	ctx := context.Background()

	student := testutil.SeedStudent(t, ctx, db, "matched student")
	existing := testutil.SeedMentor(t, ctx, db, "existing mentor", 3, 1)
	testutil.SeedActiveMatch(t, ctx, db, student.ID, existing.ID, time.Now())

	claimant := testutil.SeedMentor(t, ctx, db, "claimant mentor", 3, 0)
	batch := testutil.SeedBatch(t, ctx, db, student.ID, []uuid.UUID{claimant.ID}, time.Hour)

	if _, err := arbiter.Claim(ctx, batch.ID, claimant.ID); !errors.Is(err, domerrors.ErrAlreadyMatched) {
		t.Fatalf("err = %v, want ErrAlreadyMatched", err)
	}
	// Rollback undoes both the increment and the batch transition.
	if got := mentorMentees(t, db, claimant.ID); got != 0 {
		t.Fatalf("claimant mentees = %d, want 0", got)
	}
	reloaded, err := batches.GetByID(ctx, nil, batch.ID)
	if err != nil {
		t.Fatalf("reload batch: %v", err)
	}
	if reloaded.Status != types.BatchPending {
		t.Fatalf("batch status = %s, want pending after rollback", reloaded.Status)
	}
}

func TestClaimUnknownBatch(t *testing.T) {
	arbiter, db, _, _, _ := newArbiterForTest(t)
	ctx := context.Background()

	mentor := testutil.SeedMentor(t, ctx, db, "lost mentor", 3, 0)
	if _, err := arbiter.Claim(ctx, uuid.New(), mentor.ID); !errors.Is(err, domerrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAdminSelect(t *testing.T) {
	arbiter, db, _, _, _ := newArbiterForTest(t)
	ctx := context.Background()

	student := testutil.SeedStudent(t, ctx, db, "admin student")
	mentor := testutil.SeedMentor(t, ctx, db, "admin pick", 3, 0)
	batch := testutil.SeedBatch(t, ctx, db, student.ID, []uuid.UUID{mentor.ID}, time.Hour)

	match, err := arbiter.AdminSelect(ctx, batch.ID, mentor.ID, uuid.New())
	if err != nil {
		t.Fatalf("admin select: %v", err)
	}
	if match.StudentID != student.ID || match.MentorID != mentor.ID {
		t.Fatalf("match = %+v", match)
	}
}
