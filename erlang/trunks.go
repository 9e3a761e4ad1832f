package erlang

import "math"

// NbTrunks returns the fewest trunks that keep blocking of the offered
// intensity at or below the target probability, or 0 if none up to
// MaxIterate does.
func NbTrunks(intensity, blocking float64) int {
	return orZero(nbTrunks(intensity, blocking))
}

// NumberTrunks returns the first line count, starting from servers, whose
// blocking of the offered intensity is below MinBlocking.
func NumberTrunks(servers, intensity float64) int {
	return orZero(numberTrunks(servers, intensity))
}

// Servers returns the number of servers needed to bring blocking of the
// offered intensity down to the target, stopping early at MinBlocking.
func Servers(blocking, intensity float64) int {
	return orZero(servers(blocking, intensity))
}

// Traffic returns the largest intensity that the given number of trunks can
// carry without blocking more than the target probability.
func Traffic(servers, blocking float64) float64 {
	return orZero(traffic(servers, blocking))
}

func nbTrunks(intensity, blocking float64) (int, error) {
	if !valid(intensity) || !valid(blocking) || intensity == 0 || blocking == 0 {
		return 0, invalid("intensity=%v blocking=%v", intensity, blocking)
	}
	return trunkScan(math.Ceil(intensity), func(n int) bool {
		return ErlangB(float64(n), intensity) <= blocking
	})
}

func numberTrunks(servers, intensity float64) (int, error) {
	if !valid(servers) || !valid(intensity) {
		return 0, invalid("servers=%v intensity=%v", servers, intensity)
	}
	return trunkScan(math.Ceil(servers), func(n int) bool {
		return ErlangB(float64(n), intensity) < MinBlocking
	})
}

func trunkScan(from float64, met func(n int) bool) (int, error) {
	if from > MaxIterate {
		return 0, exhausted("start %v beyond %d trunks", from, MaxIterate)
	}
	start := int(from)
	return scan(start, MaxIterate-start+1, func(n int) (bool, error) {
		return met(n), nil
	})
}

func servers(blocking, intensity float64) (int, error) {
	if !valid(blocking) || !valid(intensity) {
		return 0, invalid("blocking=%v intensity=%v", blocking, intensity)
	}

	// same recurrence as erlangB, stopping at the first count that is enough
	b := 1.0
	count := 0
	for b > blocking && b > MinBlocking {
		if count == MaxIterate {
			return 0, exhausted("blocking %v not reached within %d servers", blocking, MaxIterate)
		}
		count++
		b = (intensity * b) / (float64(count) + intensity*b)
	}
	return count, nil
}

func traffic(servers, blocking float64) (float64, error) {
	if !valid(servers) || servers < 1 || !valid(blocking) {
		return 0, invalid("servers=%v blocking=%v", servers, blocking)
	}
	if blocking >= 1 {
		return 0, exhausted("blocking %v is reached by any intensity", blocking)
	}
	trunks := math.Floor(servers)

	// bracket the answer by doubling until blocking reaches the target
	lo, hi := 0.0, trunks
	for doublings := 0; ErlangB(trunks, hi) < blocking; doublings++ {
		if doublings == MaxLoops {
			return 0, exhausted("no intensity bracket after %d doublings", MaxLoops)
		}
		lo, hi = hi, hi*2
	}
	if ErlangB(trunks, lo) == blocking {
		return lo, nil
	}

	return refine(lo, decade((hi-lo)/10), func(x float64) bool {
		return ErlangB(trunks, x) > blocking
	}), nil
}
