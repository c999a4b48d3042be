package services

import "time"

// BlockSource supplies the current block number used to derive tap seeds.
// The production deployment backs this with the settlement chain; the
// simulator below stands in everywhere else.
type BlockSource interface {
	CurrentBlock() uint64
}

// SimulatedChain advances the block number at a fixed interval, mimicking
// the cadence of the settlement chain without an RPC connection.
type SimulatedChain struct {
	startBlock uint64
	startedAt  time.Time
	interval   time.Duration
}

func NewSimulatedChain(startBlock uint64, interval time.Duration) *SimulatedChain {
	return &SimulatedChain{
		startBlock: startBlock,
		startedAt:  time.Now(),
		interval:   interval,
	}
}

func (c *SimulatedChain) CurrentBlock() uint64 {
	elapsed := time.Since(c.startedAt)
	return c.startBlock + uint64(elapsed/c.interval)
}

// FixedBlock pins the block number, used by tests and replay verification.
type FixedBlock uint64

func (b FixedBlock) CurrentBlock() uint64 {
	return uint64(b)
}
