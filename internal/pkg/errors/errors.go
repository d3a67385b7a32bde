package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrValidation is a generic sentinel for malformed input.
	ErrValidation = errors.New("invalid argument")

	// ErrAlreadyMatched means the student already holds an active match.
	ErrAlreadyMatched = errors.New("student already matched")
	// ErrAlreadyClaimed means another caller won the claim race.
	ErrAlreadyClaimed = errors.New("already claimed")
	// ErrExpired means the batch or request passed its window before the claim.
	ErrExpired = errors.New("expired")
	// ErrAtCapacity means the mentor has no remaining mentee slots.
	ErrAtCapacity = errors.New("mentor at capacity")
	// ErrNotACandidate means the mentor is not one of the batch's slots.
	ErrNotACandidate = errors.New("mentor is not a candidate in this batch")
	// ErrNoMentorsAvailable means no capacity-eligible mentor exists right now.
	ErrNoMentorsAvailable = errors.New("no mentors available")
	// ErrServiceUnavailable means the similarity oracle failed past its retry.
	ErrServiceUnavailable = errors.New("similarity service unavailable")
)
