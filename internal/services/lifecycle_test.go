package services

import (
	"strings"
	"testing"
	"time"
)

func defaultLifecycleConfig() LifecycleConfig {
	return LifecycleConfig{
		RiskWindowDays:      30,
		RecentFeedbackCount: 3,
		RiskRatingThreshold: 3,
	}
}

func TestComputeHealthStaleMatchIsAtRisk(t *testing.T) {
	now := time.Now()
	matchedAt := now.Add(-40 * 24 * time.Hour)

	report := computeHealth(now, matchedAt, nil, nil, defaultLifecycleConfig())

	if !report.IsAtRisk {
		t.Fatalf("match with no contact for 40 days should be at risk")
	}
	if report.AtRiskReason == nil || !strings.Contains(*report.AtRiskReason, "no recent contact") {
		t.Fatalf("at_risk_reason = %v, want mention of no recent contact", report.AtRiskReason)
	}
	if report.DaysSinceContact != 40 {
		t.Fatalf("days_since_contact = %d, want 40", report.DaysSinceContact)
	}
}

func TestComputeHealthFreshMatchHealthy(t *testing.T) {
	now := time.Now()
	matchedAt := now.Add(-2 * 24 * time.Hour)

	report := computeHealth(now, matchedAt, nil, nil, defaultLifecycleConfig())

	if report.IsAtRisk {
		t.Fatalf("fresh match flagged at risk: %v", report.AtRiskReason)
	}
	if report.HealthScore != 5 {
		t.Fatalf("health = %d, want 5 for a two-day-old match", report.HealthScore)
	}
}

func TestComputeHealthUsesLastMeetingOverMatchedAt(t *testing.T) {
	now := time.Now()
	matchedAt := now.Add(-60 * 24 * time.Hour)
	lastMeeting := now.Add(-24 * time.Hour)

	report := computeHealth(now, matchedAt, &lastMeeting, nil, defaultLifecycleConfig())

	if report.IsAtRisk {
		t.Fatalf("recently met match flagged at risk: %v", report.AtRiskReason)
	}
	if report.DaysSinceContact != 1 {
		t.Fatalf("days_since_contact = %d, want 1", report.DaysSinceContact)
	}
}

func TestComputeHealthLowRatingsFlagged(t *testing.T) {
	now := time.Now()
	matchedAt := now.Add(-24 * time.Hour)

	report := computeHealth(now, matchedAt, nil, []int{1, 2, 2}, defaultLifecycleConfig())

	if !report.IsAtRisk {
		t.Fatalf("low-rated match should be at risk")
	}
	if report.AtRiskReason == nil || !strings.Contains(*report.AtRiskReason, "low recent feedback") {
		t.Fatalf("at_risk_reason = %v, want mention of low recent feedback", report.AtRiskReason)
	}
	if report.MeanRecentRating == nil || *report.MeanRecentRating >= 3 {
		t.Fatalf("mean rating = %v, want < 3", report.MeanRecentRating)
	}
}

func TestComputeHealthBothReasonsJoined(t *testing.T) {
	now := time.Now()
	matchedAt := now.Add(-45 * 24 * time.Hour)

	report := computeHealth(now, matchedAt, nil, []int{1, 1, 2}, defaultLifecycleConfig())

	if report.AtRiskReason == nil {
		t.Fatalf("expected combined at-risk reason")
	}
	reason := *report.AtRiskReason
	if !strings.Contains(reason, "no recent contact") || !strings.Contains(reason, "low recent feedback") {
		t.Fatalf("reason %q should carry both conditions", reason)
	}
	if !strings.Contains(reason, "; ") {
		t.Fatalf("reasons should be joined with a semicolon, got %q", reason)
	}
}

func TestComputeHealthMonotone(t *testing.T) {
	now := time.Now()
	cfg := defaultLifecycleConfig()

	// Health never rises as the gap since last contact grows.
	prev := 6
	for _, days := range []int{0, 5, 15, 30, 45, 60, 90} {
		matchedAt := now.Add(-time.Duration(days) * 24 * time.Hour)
		report := computeHealth(now, matchedAt, nil, nil, cfg)
		if report.HealthScore > prev {
			t.Fatalf("health rose from %d to %d at %d days", prev, report.HealthScore, days)
		}
		if report.HealthScore < 1 || report.HealthScore > 5 {
			t.Fatalf("health %d out of range at %d days", report.HealthScore, days)
		}
		prev = report.HealthScore
	}

	// Health never falls as the mean rating grows.
	matchedAt := now.Add(-10 * 24 * time.Hour)
	prev = 0
	for rating := 1; rating <= 5; rating++ {
		report := computeHealth(now, matchedAt, nil, []int{rating, rating, rating}, cfg)
		if report.HealthScore < prev {
			t.Fatalf("health fell from %d to %d at rating %d", prev, report.HealthScore, rating)
		}
		prev = report.HealthScore
	}
}

func TestComputeHealthClockSkew(t *testing.T) {
	now := time.Now()
	matchedAt := now.Add(time.Hour)

	report := computeHealth(now, matchedAt, nil, nil, defaultLifecycleConfig())
	if report.DaysSinceContact != 0 {
		t.Fatalf("future matched_at should clamp to 0 days, got %d", report.DaysSinceContact)
	}
}
