package tapcore

import (
	"errors"
	"math"
)

// ErrLengthMismatch is returned when the level and base-power sequences
// passed to TotalPower differ in length.
var ErrLengthMismatch = errors.New("levels and base powers must have the same length")

// TotalPower sums the mining power of a roster. Levels and base powers are
// paired positionally; each miner contributes basePower * (level + 1), so a
// level-0 miner still counts once at base power. Mismatched lengths are a
// caller bug and fail fast rather than silently truncating. The running
// total saturates at MaxUint64 instead of wrapping.
func TotalPower(levels []uint32, basePowers []uint64) (uint64, error) {
	if len(levels) != len(basePowers) {
		return 0, ErrLengthMismatch
	}

	var total uint64
	for i, level := range levels {
		contribution := saturatingMul(basePowers[i], uint64(level)+1)
		if total > math.MaxUint64-contribution {
			return math.MaxUint64, nil
		}
		total += contribution
	}
	return total, nil
}
