package rational

import "math/bits"

// wide is a signed 128-bit product used by Cmp.
type wide struct {
	neg bool
	hi  uint64
	lo  uint64
}

func mulWide(a, b int64) wide {
	neg := (a < 0) != (b < 0)
	hi, lo := bits.Mul64(uabs(a), uabs(b))
	if hi == 0 && lo == 0 {
		neg = false
	}
	return wide{neg: neg, hi: hi, lo: lo}
}

func uabs(n int64) uint64 {
	if n < 0 {
		return uint64(-n)
	}
	return uint64(n)
}

func (w wide) cmp(o wide) int {
	switch {
	case w.neg && !o.neg:
		return -1
	case !w.neg && o.neg:
		return 1
	}
	mag := cmpMagnitude(w, o)
	if w.neg {
		return -mag
	}
	return mag
}

func cmpMagnitude(a, b wide) int {
	switch {
	case a.hi < b.hi:
		return -1
	case a.hi > b.hi:
		return 1
	case a.lo < b.lo:
		return -1
	case a.lo > b.lo:
		return 1
	}
	return 0
}
