package domain

import "errors"

// Failure taxonomy. Components wrap these with %w so the orchestrator
// can decide continue-vs-abort with errors.Is.
var (
	// ErrSourceUnavailable means every listing strategy failed; the
	// whole cycle is abandoned and retried on the next invocation.
	ErrSourceUnavailable = errors.New("announcement source unavailable")

	// ErrDetailUnavailable means the body fetch for one announcement
	// failed; the cycle continues.
	ErrDetailUnavailable = errors.New("announcement detail unavailable")

	// ErrNotifyFailed means the sink rejected or timed out; the
	// announcement stays unrecorded and is retried next cycle.
	ErrNotifyFailed = errors.New("notification delivery failed")

	// ErrStateCorrupt means the persisted seen set is unreadable; the
	// watcher degrades to an empty set instead of failing.
	ErrStateCorrupt = errors.New("seen state corrupt")
)
