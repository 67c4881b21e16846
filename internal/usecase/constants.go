package usecase

import "time"

const (
	// DefaultSessionTTL is how long a login session stays valid.
	DefaultSessionTTL = 24 * time.Hour

	// DefaultRecentLimit is how many transactions the dashboard lists.
	DefaultRecentLimit = 5

	// InsightTimeout bounds a single insight request.
	InsightTimeout = 30 * time.Second
)
