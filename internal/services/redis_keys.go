package services

import "time"

const (
	KeyPlayerSession = "player:%s:session:%s"
	KeyPlayerState   = "player:%s:state"
	KeyMinerRoster   = "player:%s:miners"
	KeyTapRecord     = "tap:%s"
	KeyPlayerTaps    = "player:%s:taps"
	KeyTapCommitment = "commit:%s:%d"
	KeyRateLimit     = "ratelimit:%s:%s"

	TTLPlayerSession = 24 * time.Hour
	TTLTapRecord     = 7 * 24 * time.Hour // 7 days
	TTLCommitment    = time.Hour          // a commit not revealed within the hour is stale

	RateLimitTaps    = 120 // Max 120 tap predictions per minute
	RateLimitCommits = 120 // Max 120 commits per minute
)
