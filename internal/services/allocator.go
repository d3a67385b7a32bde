package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/mentorbridge-backend/internal/data/repos"
	types "github.com/yungbote/mentorbridge-backend/internal/domain"
	domerrors "github.com/yungbote/mentorbridge-backend/internal/pkg/errors"
	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
)

const maxBatchSlots = 3

type AllocatorConfig struct {
	BatchTTL time.Duration
}

// AllocatorService forms match batches: up to three distinct,
// capacity-eligible mentors per student request.
type AllocatorService interface {
	RequestMentor(ctx context.Context, studentID uuid.UUID) (*types.MatchBatch, error)
	GetBatch(ctx context.Context, studentID uuid.UUID) (*types.MatchBatch, error)
}

type allocatorService struct {
	log      *logger.Logger
	scorer   ScorerService
	students repos.StudentRepo
	mentors  repos.MentorRepo
	batches  repos.BatchRepo
	matches  repos.MatchRepo
	batchTTL time.Duration
}

func NewAllocatorService(
	log *logger.Logger,
	scorer ScorerService,
	students repos.StudentRepo,
	mentors repos.MentorRepo,
	batches repos.BatchRepo,
	matches repos.MatchRepo,
	cfg AllocatorConfig,
) AllocatorService {
	ttl := cfg.BatchTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &allocatorService{
		log:      log.With("service", "AllocatorService"),
		scorer:   scorer,
		students: students,
		mentors:  mentors,
		batches:  batches,
		matches:  matches,
		batchTTL: ttl,
	}
}

func (as *allocatorService) RequestMentor(ctx context.Context, studentID uuid.UUID) (*types.MatchBatch, error) {
	student, err := as.students.GetByID(ctx, nil, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, domerrors.ErrNotFound
	}

	active, err := as.matches.GetActiveByStudent(ctx, nil, studentID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, domerrors.ErrAlreadyMatched
	}

	now := time.Now()
	pending, err := as.batches.GetPendingByStudent(ctx, nil, studentID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		if pending.ExpiresAt.After(now) {
			return pending, nil
		}
		// Overdue but not yet swept; retire it and fall through to a fresh batch.
		if _, err := as.batches.ExpireByIDCAS(ctx, nil, pending.ID, now); err != nil {
			return nil, err
		}
	}

	scores, err := as.scorer.Score(ctx, studentID, types.RoleStudent)
	if err != nil {
		return nil, err
	}

	eligible, err := as.selectEligible(ctx, scores)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, domerrors.ErrNoMentorsAvailable
	}

	batch := &types.MatchBatch{
		ID:        uuid.New(),
		StudentID: studentID,
		Status:    types.BatchPending,
		ExpiresAt: now.Add(as.batchTTL),
	}
	for i, cand := range eligible {
		reasoning, err := json.Marshal(cand.score.Dimensions)
		if err != nil {
			return nil, fmt.Errorf("marshal reasoning: %w", err)
		}
		batch.Slots = append(batch.Slots, types.MatchBatchSlot{
			ID:        uuid.New(),
			BatchID:   batch.ID,
			MentorID:  cand.mentor.ID,
			Position:  i,
			Score:     cand.score.Aggregate,
			Reasoning: datatypes.JSON(reasoning),
		})
	}

	created, err := as.batches.Create(ctx, nil, batch)
	if err != nil {
		return nil, err
	}
	as.log.Info("match batch created",
		"batch_id", created.ID.String(),
		"student_id", studentID.String(),
		"slots", len(created.Slots),
	)
	return created, nil
}

func (as *allocatorService) GetBatch(ctx context.Context, studentID uuid.UUID) (*types.MatchBatch, error) {
	batch, err := as.batches.GetPendingByStudent(ctx, nil, studentID)
	if err != nil {
		return nil, err
	}
	if batch != nil && !batch.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	return batch, nil
}

type scoredMentor struct {
	mentor *types.MentorProfile
	score  types.CandidateScore
}

// selectEligible drops mentors at capacity and orders the rest: aggregate
// score descending, then lower current load, then earlier profile creation.
func (as *allocatorService) selectEligible(ctx context.Context, scores []types.CandidateScore) ([]scoredMentor, error) {
	ids := make([]uuid.UUID, 0, len(scores))
	scoreByID := make(map[uuid.UUID]types.CandidateScore, len(scores))
	for _, s := range scores {
		ids = append(ids, s.CandidateID)
		scoreByID[s.CandidateID] = s
	}

	mentorProfiles, err := as.mentors.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, err
	}

	candidates := make([]scoredMentor, 0, len(mentorProfiles))
	seen := make(map[uuid.UUID]struct{}, len(mentorProfiles))
	for _, m := range mentorProfiles {
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		if !m.InMatchingPool {
			continue
		}
		if m.CurrentMentees >= m.MaxMentees {
			continue
		}
		candidates = append(candidates, scoredMentor{mentor: m, score: scoreByID[m.ID]})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score.Aggregate != candidates[j].score.Aggregate {
			return candidates[i].score.Aggregate > candidates[j].score.Aggregate
		}
		if candidates[i].mentor.CurrentMentees != candidates[j].mentor.CurrentMentees {
			return candidates[i].mentor.CurrentMentees < candidates[j].mentor.CurrentMentees
		}
		return candidates[i].mentor.CreatedAt.Before(candidates[j].mentor.CreatedAt)
	})

	if len(candidates) > maxBatchSlots {
		candidates = candidates[:maxBatchSlots]
	}
	return candidates, nil
}
