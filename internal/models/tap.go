package models

// TapRecord is the audit entry kept for each predicted tap so players can
// replay and verify outcomes after on-chain settlement.
type TapRecord struct {
	ID      string `json:"id" redis:"id"`
	Address string `json:"address" redis:"address"`

	Nonce       uint32 `json:"nonce" redis:"nonce"`
	BlockNumber uint64 `json:"block_number" redis:"block_number"`

	BaseReward  uint64 `json:"base_reward" redis:"base_reward"`
	Multiplier  uint32 `json:"multiplier" redis:"multiplier"`
	IsCritical  bool   `json:"is_critical" redis:"is_critical"`
	TotalReward uint64 `json:"total_reward" redis:"total_reward"`

	Commitment string `json:"commitment,omitempty" redis:"commitment"`
	CreatedAt  int64  `json:"created_at" redis:"created_at"`
}

// TapCommitment is a pending commit-reveal entry: the hash is published
// before the tap, the secret stays server-side until reveal.
type TapCommitment struct {
	Address    string `json:"address" redis:"address"`
	Nonce      uint32 `json:"nonce" redis:"nonce"`
	Commitment string `json:"commitment" redis:"commitment"`
	Secret     string `json:"-" redis:"secret"`
	CreatedAt  int64  `json:"created_at" redis:"created_at"`
}
