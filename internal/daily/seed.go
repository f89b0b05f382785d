package daily

import "strconv"

// Seed derives the shuffle seed for a (quiz date, cohort) key. The key
// string "{date}-{cohort}" is folded one code point at a time through
// h = h*31 + cp on a wrapping 32-bit signed accumulator; the result is the
// absolute value of the final accumulator. Any change to this fold
// invalidates every previously materialized session, so the arithmetic must
// stay explicitly 32-bit.
func Seed(date string, cohort int) uint32 {
	key := date + "-" + strconv.Itoa(cohort)
	var h int32
	for _, cp := range key {
		h = h*31 + int32(cp)
	}
	// Widen before negating so the int32 minimum cannot overflow.
	wide := int64(h)
	if wide < 0 {
		wide = -wide
	}
	return uint32(wide)
}
