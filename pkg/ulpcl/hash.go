package ulpcl

import "github.com/zeebo/xxh3"

// computeHash returns the XXH3 64-bit hash of a fully-qualified message id. The lookup table a
// reader loads at runtime is built against this exact algorithm, so it must stay bit-for-bit
// compatible with the XXH3_64bits reference implementation.
func computeHash(id string) uint64 {
	return xxh3.HashString(id)
}
