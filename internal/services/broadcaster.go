package services

import "tap-miner-backend/internal/models"

type Broadcaster interface {
	BroadcastTapResult(address string, record *models.TapRecord)
	BroadcastPowerChange(address string, totalPower uint64)
}
