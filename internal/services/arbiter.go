package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mentorbridge-backend/internal/data/repos"
	types "github.com/yungbote/mentorbridge-backend/internal/domain"
	domerrors "github.com/yungbote/mentorbridge-backend/internal/pkg/errors"
	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
)

// ArbiterService owns the pending -> claimed transition. The claim
// transaction is the single serialization point: among concurrent claims on
// one batch exactly one commits, and no commit can push a mentor past
// max_mentees.
type ArbiterService interface {
	Claim(ctx context.Context, batchID, mentorID uuid.UUID) (*types.ActiveMatch, error)
	AdminSelect(ctx context.Context, batchID, mentorID, adminID uuid.UUID) (*types.ActiveMatch, error)
}

type arbiterService struct {
	log     *logger.Logger
	db      *gorm.DB
	batches repos.BatchRepo
	matches repos.MatchRepo
	mentors repos.MentorRepo
}

func NewArbiterService(
	log *logger.Logger,
	db *gorm.DB,
	batches repos.BatchRepo,
	matches repos.MatchRepo,
	mentors repos.MentorRepo,
) ArbiterService {
	return &arbiterService{
		log:     log.With("service", "ArbiterService"),
		db:      db,
		batches: batches,
		matches: matches,
		mentors: mentors,
	}
}

func (ar *arbiterService) Claim(ctx context.Context, batchID, mentorID uuid.UUID) (*types.ActiveMatch, error) {
	match, err := ar.claim(ctx, batchID, mentorID)
	if err != nil {
		return nil, err
	}
	ar.log.Info("batch claimed",
		"batch_id", batchID.String(),
		"mentor_id", mentorID.String(),
		"match_id", match.ID.String(),
	)
	return match, nil
}

func (ar *arbiterService) AdminSelect(ctx context.Context, batchID, mentorID, adminID uuid.UUID) (*types.ActiveMatch, error) {
	match, err := ar.claim(ctx, batchID, mentorID)
	if err != nil {
		return nil, err
	}
	ar.log.Info("batch claimed by admin override",
		"batch_id", batchID.String(),
		"mentor_id", mentorID.String(),
		"match_id", match.ID.String(),
		"admin_id", adminID.String(),
	)
	return match, nil
}

func (ar *arbiterService) claim(ctx context.Context, batchID, mentorID uuid.UUID) (*types.ActiveMatch, error) {
	batch, err := ar.batches.GetByID(ctx, nil, batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domerrors.ErrNotFound
	}
	if !batch.HasCandidate(mentorID) {
		return nil, domerrors.ErrNotACandidate
	}

	now := time.Now()
	switch batch.Status {
	case types.BatchClaimed:
		return nil, domerrors.ErrAlreadyClaimed
	case types.BatchExpired:
		return nil, domerrors.ErrExpired
	case types.BatchPending:
		if !batch.ExpiresAt.After(now) {
			// Past its window but not yet swept: retire it here, never claim it.
			if _, err := ar.batches.ExpireByIDCAS(ctx, nil, batchID, now); err != nil {
				return nil, err
			}
			return nil, domerrors.ErrExpired
		}
	}

	var slotScore float64
	for _, slot := range batch.Slots {
		if slot.MentorID == mentorID {
			slotScore = slot.Score
			break
		}
	}

	var match *types.ActiveMatch
	err = ar.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Capacity first: a failed guard aborts everything and leaves the
		// batch pending for the remaining slots.
		gotSlot, err := ar.mentors.IncrementMenteesIfBelowCap(ctx, tx, mentorID)
		if err != nil {
			return err
		}
		if !gotSlot {
			return domerrors.ErrAtCapacity
		}

		won, err := ar.batches.ClaimCAS(ctx, tx, batchID, mentorID, now)
		if err != nil {
			return err
		}
		if !won {
			return domerrors.ErrAlreadyClaimed
		}

		existing, err := ar.matches.GetActiveByStudent(ctx, tx, batch.StudentID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domerrors.ErrAlreadyMatched
		}

		created, err := ar.matches.Create(ctx, tx, &types.ActiveMatch{
			ID:         uuid.New(),
			StudentID:  batch.StudentID,
			MentorID:   mentorID,
			MatchScore: slotScore,
			Status:     types.MatchActive,
			MatchedAt:  now,
		})
		if err != nil {
			return err
		}
		match = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}
