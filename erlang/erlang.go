// Package erlang implements the Erlang B and Erlang C queueing formulas and the
// staffing, trunking and service-level calculations built on them.
//
// Every exported function is a pure mapping from numbers to a number. Inputs
// that have no meaningful answer (negative counts, a zero agent count where a
// division is required, a target that no count within the search bound can
// reach) never panic or return an error: they yield 0.
//
// Rates follow contact-center conventions: call volumes are calls per hour,
// handle and answer times are seconds, and traffic intensity is in Erlangs.
package erlang

import (
	"fmt"
	"math"

	"agent-staffing/errors"
)

const (
	// MaxAccuracy is the finest step of the traffic search and the distance
	// from 1 at which a service level counts as met.
	MaxAccuracy = 0.00001
	// MaxLoops bounds the passes of the traffic refinement and its bracketing.
	MaxLoops = 100
	// MaxIterate bounds trunk and agent searches that have no natural limit.
	MaxIterate = 65535
	// MinBlocking is the blocking probability below which a line count is
	// considered sufficient by NumberTrunks, Servers and Trunks.
	MinBlocking = 0.001
	// MaxUtilisation replaces any utilisation at or above 1 in wait formulas.
	MaxUtilisation = 0.99
)

// ErlangB returns the probability that a call offered to the given number of
// servers is blocked because every server is busy. Fractional servers are
// truncated; fewer than one server blocks every call.
func ErlangB(servers, intensity float64) float64 {
	return orZero(erlangB(servers, intensity))
}

// ErlangC returns the probability that a call offered to the given number of
// agents has to wait in the queue.
func ErlangC(servers, intensity float64) float64 {
	return orZero(erlangC(servers, intensity))
}

// Secs converts hours into whole seconds, rounding halves up.
func Secs(hours float64) int {
	return int(math.Floor(hours*3600 + 0.5))
}

func erlangB(servers, intensity float64) (float64, error) {
	if !valid(servers) || !valid(intensity) {
		return 0, invalid("servers=%v intensity=%v", servers, intensity)
	}

	// B(0) = 1, B(n) = A*B(n-1) / (n + A*B(n-1))
	b := 1.0
	maxIterate := int(math.Floor(servers))
	for count := 1; count <= maxIterate; count++ {
		b = (intensity * b) / (float64(count) + intensity*b)
	}
	if math.IsNaN(b) {
		return 0, undefined("blocking for servers=%v intensity=%v", servers, intensity)
	}
	return clamp(b), nil
}

func erlangC(servers, intensity float64) (float64, error) {
	b, err := erlangB(servers, intensity)
	if err != nil {
		return 0, err
	}
	if servers == 0 {
		return 0, undefined("queueing with zero servers")
	}

	rho := intensity / servers
	c := b / (rho*b + (1 - rho))
	if math.IsNaN(c) {
		return 0, undefined("queueing for servers=%v intensity=%v", servers, intensity)
	}
	return clamp(c), nil
}

// load is an hourly call volume expressed as queueing rates.
type load struct {
	calls     float64 // arrivals per hour
	aht       float64 // average handle time in seconds
	deathRate float64 // completions per agent per hour
	intensity float64 // offered traffic in Erlangs
}

func newLoad(callsPerHour, aht float64) (load, error) {
	if !valid(callsPerHour) || !valid(aht) || aht == 0 {
		return load{}, invalid("calls=%v aht=%v", callsPerHour, aht)
	}
	deathRate := 3600 / aht
	return load{
		calls:     callsPerHour,
		aht:       aht,
		deathRate: deathRate,
		intensity: callsPerHour / deathRate,
	}, nil
}

// serviceLevel is the fraction of calls answered within serviceTime seconds.
func (l load) serviceLevel(agents, serviceTime float64) (float64, error) {
	c, err := erlangC(agents, l.intensity)
	if err != nil {
		return 0, err
	}
	return clamp(1 - c*math.Exp((l.intensity-agents)*serviceTime/l.aht)), nil
}

// queueTime is the mean wait in hours of a call that does queue.
func (l load) queueTime(agents float64) (float64, error) {
	if agents == 0 {
		return 0, undefined("queue time with zero agents")
	}
	utilisation := l.intensity / agents
	if utilisation >= 1 {
		utilisation = MaxUtilisation
	}
	return 1 / (agents * l.deathRate * (1 - utilisation)), nil
}

// answerTime is the mean wait in hours over all calls, queued or not.
func (l load) answerTime(agents float64) (float64, error) {
	c, err := erlangC(agents, l.intensity)
	if err != nil {
		return 0, err
	}
	q, err := l.queueTime(agents)
	if err != nil {
		return 0, err
	}
	return c * q, nil
}

func valid(x float64) bool {
	return x >= 0 && !math.IsInf(x, 1)
}

func clamp(v float64) float64 {
	return math.Max(math.Min(v, 1), 0)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errors.ErrInvalidInput}, args...)...)
}

func undefined(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errors.ErrUndefined}, args...)...)
}

func exhausted(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errors.ErrNoSolution}, args...)...)
}

// orZero collapses a failed calculation to the zero sentinel.
func orZero[T int | float64](v T, err error) T {
	if err != nil {
		return 0
	}
	return v
}
