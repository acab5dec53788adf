package gallery

import (
	"hash/fnv"
	"strconv"
)

// Stagger picks a per-tile size in [base, base+spread) that is stable for a
// given item and position.
func Stagger(index int, key string, base, spread int) int {
	if spread <= 0 {
		return base
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	_, _ = h.Write([]byte(strconv.Itoa(index)))
	return base + int(h.Sum32()%uint32(spread))
}
