package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mentorbridge-backend/internal/clients/rediscache"
	"github.com/yungbote/mentorbridge-backend/internal/clients/similarity"
	"github.com/yungbote/mentorbridge-backend/internal/data/repos"
	types "github.com/yungbote/mentorbridge-backend/internal/domain"
	domerrors "github.com/yungbote/mentorbridge-backend/internal/pkg/errors"
	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
)

// ScoringWeights blend the four dimension sub-scores into the 0-100
// aggregate. All weights are clamped non-negative and renormalized, which
// keeps the aggregate monotone in every sub-score.
type ScoringWeights struct {
	Skills       float64 `yaml:"skills"`
	Domain       float64 `yaml:"domain"`
	Semantic     float64 `yaml:"semantic"`
	Availability float64 `yaml:"availability"`
}

func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{Skills: 0.35, Domain: 0.25, Semantic: 0.25, Availability: 0.15}
}

func (w ScoringWeights) normalized() ScoringWeights {
	clamp := func(v float64) float64 {
		if v < 0 || math.IsNaN(v) {
			return 0
		}
		return v
	}
	w.Skills = clamp(w.Skills)
	w.Domain = clamp(w.Domain)
	w.Semantic = clamp(w.Semantic)
	w.Availability = clamp(w.Availability)

	sum := w.Skills + w.Domain + w.Semantic + w.Availability
	if sum <= 0 {
		return DefaultScoringWeights()
	}
	w.Skills /= sum
	w.Domain /= sum
	w.Semantic /= sum
	w.Availability /= sum
	return w
}

type ScorerConfig struct {
	Weights       ScoringWeights
	Limit         int
	Threshold     float64
	OracleTimeout time.Duration
}

// ScorerService ranks opposite-role candidates for a profile.
type ScorerService interface {
	Score(ctx context.Context, profileID uuid.UUID, role types.Role) ([]types.CandidateScore, error)
}

type scorerService struct {
	log      *logger.Logger
	oracle   similarity.Client
	cache    rediscache.ScoreCache
	students repos.StudentRepo
	mentors  repos.MentorRepo
	weights  ScoringWeights
	limit    int
	thresh   float64
	timeout  time.Duration
}

func NewScorerService(
	log *logger.Logger,
	oracle similarity.Client,
	cache rediscache.ScoreCache,
	students repos.StudentRepo,
	mentors repos.MentorRepo,
	cfg ScorerConfig,
) ScorerService {
	limit := cfg.Limit
	if limit <= 0 {
		limit = 10
	}
	timeout := cfg.OracleTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &scorerService{
		log:      log.With("service", "ScorerService"),
		oracle:   oracle,
		cache:    cache,
		students: students,
		mentors:  mentors,
		weights:  cfg.Weights.normalized(),
		limit:    limit,
		thresh:   cfg.Threshold,
		timeout:  timeout,
	}
}

// requesterView is the role-neutral slice of a profile the scorer needs.
type requesterView struct {
	skills       []string
	domain       string
	availability string
	summary      string
}

func (ss *scorerService) Score(ctx context.Context, profileID uuid.UUID, role types.Role) ([]types.CandidateScore, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domerrors.ErrValidation, role)
	}

	if ss.cache != nil {
		if cached, ok := ss.cache.Get(ctx, profileID, role); ok {
			return cached, nil
		}
	}

	requester, err := ss.loadRequester(ctx, profileID, role)
	if err != nil {
		return nil, err
	}

	matches, err := ss.searchOracle(ctx, requester, role.Opposite())
	if err != nil {
		return nil, err
	}

	scores, err := ss.scoreMatches(ctx, requester, role.Opposite(), matches)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Aggregate > scores[j].Aggregate
	})

	if ss.cache != nil {
		ss.cache.Set(ctx, profileID, role, scores)
	}
	return scores, nil
}

func (ss *scorerService) loadRequester(ctx context.Context, profileID uuid.UUID, role types.Role) (*requesterView, error) {
	switch role {
	case types.RoleStudent:
		student, err := ss.students.GetByID(ctx, nil, profileID)
		if err != nil {
			return nil, err
		}
		if student == nil {
			return nil, domerrors.ErrNotFound
		}
		return &requesterView{
			skills:       decodeStringList(student.Skills),
			domain:       student.Major,
			availability: student.Availability,
			summary:      StudentSummaryText(student),
		}, nil
	case types.RoleMentor:
		mentor, err := ss.mentors.GetByID(ctx, nil, profileID)
		if err != nil {
			return nil, err
		}
		if mentor == nil {
			return nil, domerrors.ErrNotFound
		}
		return &requesterView{
			skills:       decodeStringList(mentor.Expertise),
			domain:       mentor.Industry,
			availability: mentor.Availability,
			summary:      MentorSummaryText(mentor),
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown role %q", domerrors.ErrValidation, role)
	}
}

func (ss *scorerService) searchOracle(ctx context.Context, requester *requesterView, targetRole types.Role) ([]similarity.SearchMatch, error) {
	contentType := ContentTypeMentorProfile
	if targetRole == types.RoleStudent {
		contentType = ContentTypeStudentProfile
	}

	oracleCtx, cancel := context.WithTimeout(ctx, ss.timeout)
	defer cancel()

	resp, err := ss.oracle.Search(oracleCtx, similarity.SearchRequest{
		QueryText:   requester.summary,
		ContentType: contentType,
		Filter:      map[string]any{"in_matching_pool": true},
		Threshold:   ss.thresh,
		Limit:       ss.limit,
	})
	if err != nil {
		ss.log.Warn("similarity oracle unavailable", "error", err)
		return nil, fmt.Errorf("%w: %v", domerrors.ErrServiceUnavailable, err)
	}
	return resp.Matches, nil
}

func (ss *scorerService) scoreMatches(ctx context.Context, requester *requesterView, targetRole types.Role, matches []similarity.SearchMatch) ([]types.CandidateScore, error) {
	candidateIDs := make([]uuid.UUID, 0, len(matches))
	similarityByID := make(map[uuid.UUID]float64, len(matches))
	for _, m := range matches {
		id, err := uuid.Parse(strings.TrimSpace(m.ID))
		if err != nil {
			ss.log.Warn("oracle returned unparsable candidate id", "raw_id", m.ID)
			continue
		}
		candidateIDs = append(candidateIDs, id)
		similarityByID[id] = m.Similarity
	}
	if len(candidateIDs) == 0 {
		return []types.CandidateScore{}, nil
	}

	scores := make([]types.CandidateScore, 0, len(candidateIDs))

	switch targetRole {
	case types.RoleMentor:
		mentors, err := ss.mentors.GetByIDs(ctx, nil, candidateIDs)
		if err != nil {
			return nil, err
		}
		for _, m := range mentors {
			if !m.InMatchingPool {
				continue
			}
			scores = append(scores, ss.scoreCandidate(
				requester,
				m.ID,
				similarityByID[m.ID],
				decodeStringList(m.Expertise),
				m.Industry,
				m.Availability,
			))
		}
	case types.RoleStudent:
		students, err := ss.students.GetByIDs(ctx, nil, candidateIDs)
		if err != nil {
			return nil, err
		}
		for _, s := range students {
			if !s.InMatchingPool {
				continue
			}
			scores = append(scores, ss.scoreCandidate(
				requester,
				s.ID,
				similarityByID[s.ID],
				decodeStringList(s.Skills),
				s.Major,
				s.Availability,
			))
		}
	default:
		return nil, fmt.Errorf("%w: unknown role %q", domerrors.ErrValidation, targetRole)
	}

	return scores, nil
}

func (ss *scorerService) scoreCandidate(
	requester *requesterView,
	candidateID uuid.UUID,
	oracleSimilarity float64,
	candidateSkills []string,
	candidateDomain string,
	candidateAvailability string,
) types.CandidateScore {
	skills, shared := skillsOverlapScore(requester.skills, candidateSkills)
	domain := domainAffinityScore(requester.domain, candidateDomain)
	semantic := clampScore(oracleSimilarity * 100)
	availability := availabilityScore(requester.availability, candidateAvailability)

	dims := map[string]types.DimensionScore{
		types.DimensionSkills: {
			Score:  skills,
			Reason: skillsReason(shared),
		},
		types.DimensionDomain: {
			Score:  domain,
			Reason: fmt.Sprintf("%q vs %q", requester.domain, candidateDomain),
		},
		types.DimensionSemantic: {
			Score:  semantic,
			Reason: fmt.Sprintf("oracle similarity %.2f", oracleSimilarity),
		},
		types.DimensionAvailability: {
			Score:  availability,
			Reason: availabilityReason(requester.availability, candidateAvailability),
		},
	}

	return types.CandidateScore{
		CandidateID: candidateID,
		Aggregate:   AggregateScore(ss.weights, dims),
		Dimensions:  dims,
	}
}

// AggregateScore is the weighted mean over the dimension sub-scores.
// Weights must already be normalized.
func AggregateScore(w ScoringWeights, dims map[string]types.DimensionScore) float64 {
	agg := w.Skills*dims[types.DimensionSkills].Score +
		w.Domain*dims[types.DimensionDomain].Score +
		w.Semantic*dims[types.DimensionSemantic].Score +
		w.Availability*dims[types.DimensionAvailability].Score
	return math.Round(clampScore(agg)*100) / 100
}

func skillsOverlapScore(a, b []string) (float64, []string) {
	setA := normalizeTokens(a)
	setB := normalizeTokens(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 50, nil
	}
	var shared []string
	union := make(map[string]struct{}, len(setA)+len(setB))
	for t := range setA {
		union[t] = struct{}{}
	}
	for t := range setB {
		union[t] = struct{}{}
		if _, ok := setA[t]; ok {
			shared = append(shared, t)
		}
	}
	sort.Strings(shared)
	return clampScore(float64(len(shared)) / float64(len(union)) * 100), shared
}

func domainAffinityScore(a, b string) float64 {
	a = strings.TrimSpace(strings.ToLower(a))
	b = strings.TrimSpace(strings.ToLower(b))
	if a == "" || b == "" {
		return 50
	}
	if a == b {
		return 100
	}
	tokensA := normalizeTokens(strings.Fields(a))
	tokensB := normalizeTokens(strings.Fields(b))
	for t := range tokensA {
		if _, ok := tokensB[t]; ok {
			return 75
		}
	}
	return 40
}

func availabilityScore(a, b string) float64 {
	slotsA := normalizeTokens(strings.Split(a, ","))
	slotsB := normalizeTokens(strings.Split(b, ","))
	if len(slotsA) == 0 || len(slotsB) == 0 {
		return 60
	}
	overlap := 0
	for s := range slotsA {
		if _, ok := slotsB[s]; ok {
			overlap++
		}
	}
	smaller := len(slotsA)
	if len(slotsB) < smaller {
		smaller = len(slotsB)
	}
	return clampScore(float64(overlap) / float64(smaller) * 100)
}

func skillsReason(shared []string) string {
	if len(shared) == 0 {
		return "no direct skill overlap"
	}
	return "shared: " + strings.Join(shared, ", ")
}

func availabilityReason(a, b string) string {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return "availability not specified by both sides"
	}
	return fmt.Sprintf("%q vs %q", a, b)
}

func normalizeTokens(tokens []string) map[string]struct{} {
	out := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		t = strings.TrimSpace(strings.ToLower(t))
		if t == "" {
			continue
		}
		out[t] = struct{}{}
	}
	return out
}

func clampScore(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
