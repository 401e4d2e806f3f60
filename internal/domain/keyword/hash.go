package keyword

import "hash/fnv"

// StableHash returns the 32-bit FNV-1a hash of the normalized keyword. All
// pseudo-random components of the scoring pipeline are seeded from this
// value, so identical keywords produce identical estimates across processes
// and restarts.
func StableHash(raw string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(Normalize(raw)))
	return h.Sum32()
}

// SaltedHash returns the stable hash of the normalized keyword with salt
// appended. Estimators that need noise independent from the base hash use a
// distinct salt per concern.
func SaltedHash(raw, salt string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(Normalize(raw) + salt))
	return h.Sum32()
}
