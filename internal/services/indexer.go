package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/mentorbridge-backend/internal/clients/rediscache"
	"github.com/yungbote/mentorbridge-backend/internal/clients/similarity"
	"github.com/yungbote/mentorbridge-backend/internal/data/repos"
	types "github.com/yungbote/mentorbridge-backend/internal/domain"
	domerrors "github.com/yungbote/mentorbridge-backend/internal/pkg/errors"
	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
)

// Oracle document content types, one per profile variant.
const (
	ContentTypeStudentProfile = "student_profile"
	ContentTypeMentorProfile  = "mentor_profile"
)

// ProfileIndexer keeps the similarity oracle's view of profiles current.
type ProfileIndexer interface {
	Reindex(ctx context.Context, profileID uuid.UUID, role types.Role) error
	ReindexAll(ctx context.Context) (int, error)
	Remove(ctx context.Context, profileID uuid.UUID) error
}

type profileIndexer struct {
	log      *logger.Logger
	oracle   similarity.Client
	cache    rediscache.ScoreCache
	students repos.StudentRepo
	mentors  repos.MentorRepo
}

func NewProfileIndexer(
	log *logger.Logger,
	oracle similarity.Client,
	cache rediscache.ScoreCache,
	students repos.StudentRepo,
	mentors repos.MentorRepo,
) ProfileIndexer {
	return &profileIndexer{
		log:      log.With("service", "ProfileIndexer"),
		oracle:   oracle,
		cache:    cache,
		students: students,
		mentors:  mentors,
	}
}

func (pi *profileIndexer) Reindex(ctx context.Context, profileID uuid.UUID, role types.Role) error {
	var req similarity.UpsertRequest

	switch role {
	case types.RoleStudent:
		student, err := pi.students.GetByID(ctx, nil, profileID)
		if err != nil {
			return err
		}
		if student == nil {
			return domerrors.ErrNotFound
		}
		req = studentUpsert(student)
	case types.RoleMentor:
		mentor, err := pi.mentors.GetByID(ctx, nil, profileID)
		if err != nil {
			return err
		}
		if mentor == nil {
			return domerrors.ErrNotFound
		}
		req = mentorUpsert(mentor)
	default:
		return fmt.Errorf("%w: unknown role %q", domerrors.ErrValidation, role)
	}

	if err := pi.oracle.UpsertDocument(ctx, req); err != nil {
		return fmt.Errorf("%w: %v", domerrors.ErrServiceUnavailable, err)
	}
	if pi.cache != nil {
		pi.cache.Invalidate(ctx, profileID)
	}
	return nil
}

func (pi *profileIndexer) ReindexAll(ctx context.Context) (int, error) {
	count := 0

	students, err := pi.students.ListAll(ctx, nil)
	if err != nil {
		return count, err
	}
	for _, s := range students {
		if err := pi.oracle.UpsertDocument(ctx, studentUpsert(s)); err != nil {
			return count, fmt.Errorf("reindex student %s: %w", s.ID, err)
		}
		count++
	}

	mentors, err := pi.mentors.ListAll(ctx, nil)
	if err != nil {
		return count, err
	}
	for _, m := range mentors {
		if err := pi.oracle.UpsertDocument(ctx, mentorUpsert(m)); err != nil {
			return count, fmt.Errorf("reindex mentor %s: %w", m.ID, err)
		}
		count++
	}

	return count, nil
}

func (pi *profileIndexer) Remove(ctx context.Context, profileID uuid.UUID) error {
	if err := pi.oracle.DeleteDocument(ctx, profileID.String()); err != nil {
		return fmt.Errorf("%w: %v", domerrors.ErrServiceUnavailable, err)
	}
	if pi.cache != nil {
		pi.cache.Invalidate(ctx, profileID)
	}
	return nil
}

func studentUpsert(s *types.StudentProfile) similarity.UpsertRequest {
	return similarity.UpsertRequest{
		ID:          s.ID.String(),
		ContentType: ContentTypeStudentProfile,
		Text:        StudentSummaryText(s),
		Metadata: map[string]any{
			"role":             string(types.RoleStudent),
			"in_matching_pool": s.InMatchingPool,
		},
	}
}

func mentorUpsert(m *types.MentorProfile) similarity.UpsertRequest {
	return similarity.UpsertRequest{
		ID:          m.ID.String(),
		ContentType: ContentTypeMentorProfile,
		Text:        MentorSummaryText(m),
		Metadata: map[string]any{
			"role":             string(types.RoleMentor),
			"in_matching_pool": m.InMatchingPool,
		},
	}
}

// StudentSummaryText builds the canonical oracle document for a student.
// Field order is stable so re-upserts of an unchanged profile are no-ops
// oracle-side.
func StudentSummaryText(s *types.StudentProfile) string {
	var b strings.Builder
	writeSummaryLine(&b, "Major", s.Major)
	writeSummaryLine(&b, "Skills", strings.Join(decodeStringList(s.Skills), ", "))
	writeSummaryLine(&b, "Goals", s.Goals)
	writeSummaryLine(&b, "Availability", s.Availability)
	writeSummaryLine(&b, "Bio", s.Bio)
	return strings.TrimSpace(b.String())
}

// MentorSummaryText builds the canonical oracle document for a mentor.
func MentorSummaryText(m *types.MentorProfile) string {
	var b strings.Builder
	writeSummaryLine(&b, "Industry", m.Industry)
	writeSummaryLine(&b, "Expertise", strings.Join(decodeStringList(m.Expertise), ", "))
	writeSummaryLine(&b, "Availability", m.Availability)
	writeSummaryLine(&b, "Bio", m.Bio)
	return strings.TrimSpace(b.String())
}

func writeSummaryLine(b *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}

func decodeStringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
