package erlang

import "math"

// Agents returns the fewest agents that answer at least the sla fraction of
// calls within serviceTime seconds. A service level within MaxAccuracy of 1
// also counts as met.
func Agents(sla, serviceTime, callsPerHour, aht float64) int {
	return orZero(agents(sla, serviceTime, callsPerHour, aht))
}

// FractionalAgents is Agents interpolated linearly between the last count
// that missed the target and the first that met it. The result lies in
// (Agents-1, Agents].
func FractionalAgents(sla, serviceTime, callsPerHour, aht float64) float64 {
	return orZero(fractionalAgents(sla, serviceTime, callsPerHour, aht))
}

// AgentsASA returns the fewest agents that keep the average speed of answer
// at or below asa seconds. A negative asa is read as one second.
func AgentsASA(asa, callsPerHour, aht float64) int {
	return orZero(agentsASA(asa, callsPerHour, aht))
}

// NbAgents searches agent counts from one upwards for the first whose rounded
// ASA is at or below the target.
func NbAgents(callsPerHour, asa, aht float64) int {
	return orZero(nbAgents(callsPerHour, asa, aht))
}

// CallCapacity returns the most calls per hour that the given whole number of
// agents can handle while meeting the service level.
func CallCapacity(agents, sla, serviceTime, aht float64) int {
	return orZero(callCapacity(agents, sla, serviceTime, aht))
}

// FractionalCallCapacity is CallCapacity for a fractional agent count.
func FractionalCallCapacity(agents, sla, serviceTime, aht float64) int {
	return orZero(fractionalCallCapacity(agents, sla, serviceTime, aht))
}

// ServiceTime returns the answer-time threshold in seconds that the given
// agents meet for the sla fraction of calls. It is 0 when so few calls queue
// that the target is met without any wait.
func ServiceTime(agents, sla, callsPerHour, aht float64) int {
	return orZero(serviceTime(agents, sla, callsPerHour, aht))
}

// seedAgents is the smallest count, at least one, that keeps the utilisation
// of the given intensity below 100%.
func seedAgents(intensity float64) int {
	n := int(math.Floor(intensity + 0.5))
	if n < 1 {
		n = 1
	}
	for intensity/float64(n) >= 1 {
		n++
	}
	return n
}

func checkTarget(sla, serviceTime float64) (float64, error) {
	if !valid(sla) || !valid(serviceTime) {
		return 0, invalid("sla=%v serviceTime=%v", sla, serviceTime)
	}
	return math.Min(sla, 1), nil
}

func agents(sla, serviceTime, callsPerHour, aht float64) (int, error) {
	sla, err := checkTarget(sla, serviceTime)
	if err != nil {
		return 0, err
	}
	l, err := newLoad(callsPerHour, aht)
	if err != nil {
		return 0, err
	}

	seed := seedAgents(l.intensity)
	return scan(seed, seed*100, func(n int) (bool, error) {
		sl, err := l.serviceLevel(float64(n), serviceTime)
		if err != nil {
			return false, err
		}
		return sl >= sla || sl > 1-MaxAccuracy, nil
	})
}

func fractionalAgents(sla, serviceTime, callsPerHour, aht float64) (float64, error) {
	sla, err := checkTarget(sla, serviceTime)
	if err != nil {
		return 0, err
	}
	l, err := newLoad(callsPerHour, aht)
	if err != nil {
		return 0, err
	}

	// the count below the seed runs at 100% utilisation, so its level is 0
	var last, sl float64
	seed := seedAgents(l.intensity)
	n, err := scan(seed, seed*100, func(n int) (bool, error) {
		last = sl
		sl, err = l.serviceLevel(float64(n), serviceTime)
		if err != nil {
			return false, err
		}
		return sl >= sla || sl > 1-MaxAccuracy, nil
	})
	if err != nil {
		return 0, err
	}

	if sl > sla {
		return (sla-last)/(sl-last) + float64(n-1), nil
	}
	return float64(n), nil
}

func agentsASA(asa, callsPerHour, aht float64) (int, error) {
	if math.IsNaN(asa) {
		return 0, invalid("asa=%v", asa)
	}
	if asa < 0 {
		asa = 1
	}
	l, err := newLoad(callsPerHour, aht)
	if err != nil {
		return 0, err
	}

	seed := seedAgents(l.intensity)
	return scan(seed, seed*100, func(n int) (bool, error) {
		wait, err := l.answerTime(float64(n))
		if err != nil {
			return false, err
		}
		return wait*3600 <= asa, nil
	})
}

func nbAgents(callsPerHour, asa, aht float64) (int, error) {
	if !valid(callsPerHour) || !valid(asa) || callsPerHour == 0 || asa == 0 {
		return 0, invalid("calls=%v asa=%v", callsPerHour, asa)
	}
	l, err := newLoad(callsPerHour, aht)
	if err != nil {
		return 0, err
	}

	return scan(1, MaxIterate, func(n int) (bool, error) {
		wait, err := l.answerTime(float64(n))
		if err != nil {
			return false, err
		}
		return float64(Secs(wait)) <= asa, nil
	})
}

func callCapacity(agentCount, sla, serviceTime, aht float64) (int, error) {
	if !valid(agentCount) || !valid(aht) || aht == 0 {
		return 0, invalid("agents=%v aht=%v", agentCount, aht)
	}

	// start from the volume that keeps every agent busy and back off
	noAgents := math.Floor(agentCount)
	calls := math.Ceil(3600/aht) * noAgents
	need, err := agents(sla, serviceTime, calls, aht)
	for err == nil && float64(need) > noAgents && calls > 0 {
		calls--
		need, err = agents(sla, serviceTime, calls, aht)
	}
	if err != nil {
		return 0, err
	}
	return int(calls), nil
}

func fractionalCallCapacity(agentCount, sla, serviceTime, aht float64) (int, error) {
	if !valid(agentCount) || !valid(aht) || aht == 0 {
		return 0, invalid("agents=%v aht=%v", agentCount, aht)
	}

	calls := math.Ceil(3600 / aht * agentCount)
	need, err := fractionalAgents(sla, serviceTime, calls, aht)
	for err == nil && need > agentCount && calls > 0 {
		calls--
		need, err = fractionalAgents(sla, serviceTime, calls, aht)
	}
	if err != nil {
		return 0, err
	}
	return int(calls), nil
}

func serviceTime(agentCount, sla, callsPerHour, aht float64) (int, error) {
	if !valid(agentCount) || !valid(sla) {
		return 0, invalid("agents=%v sla=%v", agentCount, sla)
	}
	l, err := newLoad(callsPerHour, aht)
	if err != nil {
		return 0, err
	}

	c, err := erlangC(agentCount, l.intensity)
	if err != nil {
		return 0, err
	}
	if c == 0 || c < 1-sla {
		return 0, undefined("queueing probability %.5f leaves no wait for sla %v", c, sla)
	}
	q, err := l.queueTime(agentCount)
	if err != nil {
		return 0, err
	}
	secs := q * 3600 * (1 - (1-sla)/c)

	// nudge up a second when the threshold does not reproduce the agent count
	adjust := 0.0
	n, err := agents(sla, math.Floor(secs), callsPerHour, aht)
	if err != nil {
		return 0, err
	}
	if float64(n) != agentCount {
		adjust = 1
	}
	return int(math.Floor(secs + adjust)), nil
}
