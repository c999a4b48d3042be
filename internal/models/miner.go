package models

import "fmt"

// Miner is one entry in a player's roster: an upgrade level and the base
// power of that miner type. A level-0 miner still produces its base power.
type Miner struct {
	Level     uint32 `json:"level" redis:"level"`
	BasePower uint64 `json:"base_power" redis:"base_power"`
}

// MinerRoster is the ordered set of miners owned by a player.
type MinerRoster struct {
	Address string  `json:"address" redis:"address"`
	Miners  []Miner `json:"miners" redis:"miners"`

	UpdatedAt int64 `json:"updated_at" redis:"updated_at"`
}

// Levels returns the roster's levels in order.
func (r *MinerRoster) Levels() []uint32 {
	levels := make([]uint32, len(r.Miners))
	for i, m := range r.Miners {
		levels[i] = m.Level
	}
	return levels
}

// BasePowers returns the roster's base powers in order.
func (r *MinerRoster) BasePowers() []uint64 {
	powers := make([]uint64, len(r.Miners))
	for i, m := range r.Miners {
		powers[i] = m.BasePower
	}
	return powers
}

func (m Miner) Validate() error {
	if m.BasePower == 0 {
		return fmt.Errorf("miner base power must be positive")
	}
	if m.BasePower > MaxBasePower {
		return fmt.Errorf("miner base power %d exceeds maximum %d", m.BasePower, MaxBasePower)
	}
	if m.Level > MaxMinerLevel {
		return fmt.Errorf("miner level %d exceeds maximum %d", m.Level, MaxMinerLevel)
	}
	return nil
}

// MaxMinerLevel bounds upgrades; the settlement contract enforces the same
// cap.
const MaxMinerLevel = 100

// MaxBasePower keeps a full roster of maxed miners, at the top multiplier,
// orders of magnitude below the signed 64-bit range the reward counters
// settle in.
const MaxBasePower = 1_000_000_000
