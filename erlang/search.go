package erlang

// scan tries counts start, start+1, ... and returns the first for which met
// reports true. It gives up with ErrNoSolution after limit trials. Every
// solver in this package relies on met being monotonic in the count.
func scan(start, limit int, met func(n int) (bool, error)) (int, error) {
	n := start
	for trial := 1; trial <= limit; trial++ {
		ok, err := met(n)
		if err != nil {
			return 0, err
		}
		if ok {
			return n, nil
		}
		n++
	}
	return 0, exhausted("%d trials from %d", limit, start)
}

// refine walks x upward from lo in steps of incr. When exceeds(x) holds it
// falls back to the last x that did not exceed and divides the step by ten.
// It stops once the step is finer than MaxAccuracy or after MaxLoops passes
// and returns the largest x seen that did not exceed.
func refine(lo, incr float64, exceeds func(x float64) bool) float64 {
	good, x := lo, lo
	for pass := 0; incr >= MaxAccuracy && pass < MaxLoops; pass++ {
		if exceeds(x) {
			incr /= 10
			x = good
		} else {
			good = x
		}
		x += incr
	}
	return good
}

// decade returns the smallest power of ten not below x, for x > 0.
func decade(x float64) float64 {
	p := 1.0
	for p < x {
		p *= 10
	}
	for p/10 >= x {
		p /= 10
	}
	return p
}
