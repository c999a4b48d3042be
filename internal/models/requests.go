package models

type LoginRequest struct {
	Address string `json:"address" binding:"required"`
}

type CommitRequest struct {
	// Optional client secret; the server generates one when omitted.
	Secret string `json:"secret"`
}

type CommitResponse struct {
	Address    string `json:"address"`
	Nonce      uint32 `json:"nonce"`
	Commitment string `json:"commitment"`
}

type VerifyRequest struct {
	Nonce      uint32 `json:"nonce"`
	Secret     string `json:"secret" binding:"required"`
	Commitment string `json:"commitment" binding:"required"`
}

type VerifyResponse struct {
	Valid      bool   `json:"valid"`
	Commitment string `json:"commitment"`
}

type RosterUpdateRequest struct {
	Miners []Miner `json:"miners" binding:"required"`
}

type PowerResponse struct {
	Address    string `json:"address"`
	MinerCount int    `json:"miner_count"`
	TotalPower uint64 `json:"total_power"`
}
