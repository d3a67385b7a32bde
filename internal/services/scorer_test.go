package services

import (
	"math"
	"testing"

	types "github.com/yungbote/mentorbridge-backend/internal/domain"
)

func dims(skills, domain, semantic, availability float64) map[string]types.DimensionScore {
	return map[string]types.DimensionScore{
		types.DimensionSkills:       {Score: skills},
		types.DimensionDomain:       {Score: domain},
		types.DimensionSemantic:     {Score: semantic},
		types.DimensionAvailability: {Score: availability},
	}
}

func TestScoringWeightsNormalized(t *testing.T) {
	tests := []struct {
		name string
		in   ScoringWeights
	}{
		{"defaults", DefaultScoringWeights()},
		{"unnormalized", ScoringWeights{Skills: 2, Domain: 1, Semantic: 1, Availability: 1}},
		{"negative clamped", ScoringWeights{Skills: -1, Domain: 1, Semantic: 1, Availability: 1}},
		{"all zero falls back", ScoringWeights{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.in.normalized()
			if w.Skills < 0 || w.Domain < 0 || w.Semantic < 0 || w.Availability < 0 {
				t.Fatalf("normalized weights contain negatives: %+v", w)
			}
			sum := w.Skills + w.Domain + w.Semantic + w.Availability
			if math.Abs(sum-1) > 1e-9 {
				t.Fatalf("normalized weights sum to %v, want 1", sum)
			}
		})
	}
}

func TestAggregateScoreMonotonic(t *testing.T) {
	w := DefaultScoringWeights().normalized()

	higher := AggregateScore(w, dims(90, 80, 70, 100))
	lower := AggregateScore(w, dims(70, 80, 70, 100))
	if higher < lower {
		t.Fatalf("aggregate dropped when a sub-score rose: %v < %v", higher, lower)
	}

	// Raising any single dimension must never lower the aggregate.
	base := dims(50, 50, 50, 50)
	baseAgg := AggregateScore(w, base)
	for _, dim := range []string{
		types.DimensionSkills, types.DimensionDomain,
		types.DimensionSemantic, types.DimensionAvailability,
	} {
		bumped := dims(50, 50, 50, 50)
		bumped[dim] = types.DimensionScore{Score: 95}
		if got := AggregateScore(w, bumped); got < baseAgg {
			t.Errorf("raising %s lowered aggregate: %v < %v", dim, got, baseAgg)
		}
	}
}

func TestAggregateScoreBounds(t *testing.T) {
	w := DefaultScoringWeights().normalized()
	if got := AggregateScore(w, dims(100, 100, 100, 100)); got != 100 {
		t.Fatalf("all-100 dims aggregate = %v, want 100", got)
	}
	if got := AggregateScore(w, dims(0, 0, 0, 0)); got != 0 {
		t.Fatalf("all-0 dims aggregate = %v, want 0", got)
	}
}

func TestSkillsOverlapScore(t *testing.T) {
	score, shared := skillsOverlapScore([]string{"Go", "SQL"}, []string{"go", "sql"})
	if score != 100 {
		t.Fatalf("identical skill sets score = %v, want 100", score)
	}
	if len(shared) != 2 {
		t.Fatalf("shared = %v, want both skills", shared)
	}

	score, shared = skillsOverlapScore([]string{"go"}, []string{"rust"})
	if score != 0 || len(shared) != 0 {
		t.Fatalf("disjoint sets score = %v shared = %v, want 0 and none", score, shared)
	}

	score, _ = skillsOverlapScore(nil, []string{"go"})
	if score != 50 {
		t.Fatalf("missing side score = %v, want neutral 50", score)
	}

	// Jaccard: 1 shared of 3 distinct.
	score, shared = skillsOverlapScore([]string{"go", "sql"}, []string{"go", "kubernetes"})
	want := float64(1) / 3 * 100
	if math.Abs(score-want) > 1e-9 {
		t.Fatalf("partial overlap score = %v, want %v", score, want)
	}
	if len(shared) != 1 || shared[0] != "go" {
		t.Fatalf("shared = %v, want [go]", shared)
	}
}

func TestDomainAffinityScore(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"Software", "software", 100},
		{"software engineering", "mechanical engineering", 75},
		{"finance", "healthcare", 40},
		{"", "finance", 50},
	}
	for _, tt := range tests {
		if got := domainAffinityScore(tt.a, tt.b); got != tt.want {
			t.Errorf("domainAffinityScore(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestAvailabilityScore(t *testing.T) {
	if got := availabilityScore("mon,wed", "wed,fri"); got != 50 {
		t.Fatalf("one of two slots shared = %v, want 50", got)
	}
	if got := availabilityScore("mon", "mon,tue,wed"); got != 100 {
		t.Fatalf("smaller side fully covered = %v, want 100", got)
	}
	if got := availabilityScore("", "mon"); got != 60 {
		t.Fatalf("missing availability = %v, want neutral 60", got)
	}
}

func TestClampScore(t *testing.T) {
	if got := clampScore(-5); got != 0 {
		t.Fatalf("clampScore(-5) = %v", got)
	}
	if got := clampScore(140); got != 100 {
		t.Fatalf("clampScore(140) = %v", got)
	}
	if got := clampScore(math.NaN()); got != 0 {
		t.Fatalf("clampScore(NaN) = %v", got)
	}
}
