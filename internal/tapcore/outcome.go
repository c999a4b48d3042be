package tapcore

import "math"

const (
	// BaseCriticalChance is the critical-hit chance in percent before any
	// pity bonus applies.
	BaseCriticalChance = 10

	// MaxPityBonus caps the pity bonus at +40%, reached after 2000
	// consecutive non-critical taps.
	MaxPityBonus = 40

	pityStep = 50 // taps per +1% bonus
)

// TapContext bundles the inputs of a single tap prediction.
type TapContext struct {
	Address     string `json:"address"`
	MinerPower  uint64 `json:"miner_power"`
	PityCounter uint32 `json:"pity_counter"`
	BlockNumber uint64 `json:"block_number"`
	Nonce       uint32 `json:"nonce"`
}

// RewardPrediction is the locally computed outcome of a tap, matching what
// the settlement contract would compute for the same inputs.
type RewardPrediction struct {
	BaseReward  uint64 `json:"base_reward"`
	Multiplier  uint32 `json:"multiplier"`
	IsCritical  bool   `json:"is_critical"`
	TotalReward uint64 `json:"total_reward"`
}

// CriticalChance returns the critical-hit chance in percent for a given
// pity counter: 10% base plus 1% per 50 consecutive non-critical taps,
// saturating at 50% total.
func CriticalChance(pityCounter uint32) uint64 {
	bonus := uint64(pityCounter / pityStep)
	if bonus > MaxPityBonus {
		bonus = MaxPityBonus
	}
	return BaseCriticalChance + bonus
}

// SelectMultiplier maps a roll in [0,100) to a critical multiplier:
// x2 (70%), x5 (20%), x10 (9%), x50 (1%). The four ranges partition
// [0,100) exactly.
func SelectMultiplier(roll uint64) uint32 {
	switch {
	case roll < 70:
		return 2
	case roll < 90:
		return 5
	case roll < 99:
		return 10
	default:
		return 50
	}
}

// Predict computes the reward outcome for a tap without a chain call.
// Identical inputs always produce the identical prediction, on any
// platform. The total reward saturates at MaxUint64 instead of wrapping;
// see the reward identity note on the return value.
//
// When saturation occurs TotalReward no longer equals BaseReward times
// Multiplier; every realistic miner power stays far below that range.
func Predict(ctx TapContext) RewardPrediction {
	seed := DeriveSeed(ctx.Address, ctx.BlockNumber, ctx.Nonce)
	randomValue := ExtractRandom(seed)

	roll := randomValue % 100
	isCritical := roll < CriticalChance(ctx.PityCounter)

	multiplier := uint32(1)
	if isCritical {
		// Same roll reused for the multiplier table, not re-rolled.
		multiplier = SelectMultiplier(roll)
	}

	return RewardPrediction{
		BaseReward:  ctx.MinerPower,
		Multiplier:  multiplier,
		IsCritical:  isCritical,
		TotalReward: saturatingMul(ctx.MinerPower, uint64(multiplier)),
	}
}

func saturatingMul(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxUint64/b {
		return math.MaxUint64
	}
	return a * b
}
