package models

// PlayerState is the server-side mining state for one wallet address. The
// pity counter and tap nonce mirror what the settlement contract tracks;
// keeping them in sync is what makes local predictions match on-chain
// results.
type PlayerState struct {
	Address string `json:"address" redis:"address"`

	PityCounter uint32 `json:"pity_counter" redis:"pity_counter"`
	TapNonce    uint32 `json:"tap_nonce" redis:"tap_nonce"`

	TotalTaps    uint64 `json:"total_taps" redis:"total_taps"`
	TotalRewards uint64 `json:"total_rewards" redis:"total_rewards"`
	CriticalHits uint64 `json:"critical_hits" redis:"critical_hits"`

	CreatedAt int64 `json:"created_at" redis:"created_at"`
	UpdatedAt int64 `json:"updated_at" redis:"updated_at"`
}

// PlayerSession is an authenticated session issued at login and stored
// alongside the JWT so it can be revoked server-side.
type PlayerSession struct {
	Address      string `json:"address" redis:"address"`
	SessionID    string `json:"session_id" redis:"session_id"`
	CreatedAt    int64  `json:"created_at" redis:"created_at"`
	LastAccessed int64  `json:"last_accessed" redis:"last_accessed"`
}
