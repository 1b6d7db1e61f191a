package scenario

import (
	"strconv"

	"github.com/spatialmodel/qmra/internal/hash"
)

// deriveSeed produces a per-scenario RNG seed from a batch's base seed and
// a scenario's ordinal index, so that parallelizing scenario execution
// across workers never changes results (§5, §9).
func deriveSeed(baseSeed int64, index int) int64 {
	key := struct {
		BaseSeed int64
		Index    int
	}{baseSeed, index}
	h := hash.Hash(key)
	// Hash returns a hex string; the low 15 hex digits comfortably fit in
	// an int64 and are as good a seed as any other slice of the digest.
	n := len(h)
	if n > 15 {
		h = h[n-15:]
	}
	v, err := strconv.ParseUint(h, 16, 64)
	if err != nil {
		// Hash always returns valid hex; this is unreachable in practice.
		return baseSeed + int64(index)
	}
	return int64(v)
}
