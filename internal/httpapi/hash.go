package httpapi

import "hash/fnv"

// hashToken reduces a VisitorToken to the 64-bit VisitorHash the store
// uses for UV set membership. Collisions are accepted per spec.md §9.
func hashToken(token string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(token))
	return h.Sum64()
}
