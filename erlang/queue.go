package erlang

import "math"

// Utilisation returns the share of agent time taken by the offered calls.
func Utilisation(agents, callsPerHour, aht float64) float64 {
	return orZero(utilisation(agents, callsPerHour, aht))
}

// Queued returns the probability that a call has to wait.
func Queued(agents, callsPerHour, aht float64) float64 {
	return orZero(queued(agents, callsPerHour, aht))
}

// QueueSize returns the mean number of calls waiting, rounded. A saturated
// queue reports the whole hourly volume.
func QueueSize(agents, callsPerHour, aht float64) int {
	q, err := queueSize(agents, callsPerHour, aht)
	if err != nil {
		return 0
	}
	return int(math.Floor(q + 0.5))
}

// FractionalQueueSize is QueueSize rounded to one decimal place.
func FractionalQueueSize(agents, callsPerHour, aht float64) float64 {
	q, err := queueSize(agents, callsPerHour, aht)
	if err != nil {
		return 0
	}
	return math.Floor(q*10+0.5) / 10
}

// QueueTime returns the mean wait, in hours, of a call that is queued.
// Utilisation at or above 1 is taken as MaxUtilisation.
func QueueTime(agents, callsPerHour, aht float64) float64 {
	return orZero(queueTime(agents, callsPerHour, aht))
}

// ASA returns the average speed of answer over all calls in whole seconds.
func ASA(agents, callsPerHour, aht float64) int {
	return orZero(asa(agents, callsPerHour, aht))
}

// Abandon returns the probability that a caller who hangs up after
// abandonTime seconds of waiting does so before being answered.
func Abandon(agents, abandonTime, callsPerHour, aht float64) float64 {
	return orZero(abandon(agents, abandonTime, callsPerHour, aht))
}

// SLA returns the fraction of calls answered within serviceTime seconds.
func SLA(agents, serviceTime, callsPerHour, aht float64) float64 {
	return orZero(sla(agents, serviceTime, callsPerHour, aht))
}

// Trunks returns the lines needed to carry calls both while they talk and while
// they wait, with blocking below MinBlocking. Any offered traffic needs at
// least one line.
func Trunks(agents, callsPerHour, aht float64) int {
	return orZero(trunks(agents, callsPerHour, aht))
}

func agentLoad(agents, callsPerHour, aht float64) (load, error) {
	if !valid(agents) {
		return load{}, invalid("agents=%v", agents)
	}
	return newLoad(callsPerHour, aht)
}

func utilisation(agents, callsPerHour, aht float64) (float64, error) {
	l, err := agentLoad(agents, callsPerHour, aht)
	if err != nil {
		return 0, err
	}
	if l.intensity == 0 {
		return 0, nil
	}
	// zero agents give +Inf, which clamps to fully busy
	return clamp(l.intensity / agents), nil
}

func queued(agents, callsPerHour, aht float64) (float64, error) {
	l, err := agentLoad(agents, callsPerHour, aht)
	if err != nil {
		return 0, err
	}
	return erlangC(agents, l.intensity)
}

func queueSize(agents, callsPerHour, aht float64) (float64, error) {
	l, err := agentLoad(agents, callsPerHour, aht)
	if err != nil {
		return 0, err
	}
	if l.intensity == 0 {
		return 0, nil
	}
	u := l.intensity / agents
	if u >= 1 {
		return l.calls, nil
	}
	c, err := erlangC(agents, l.intensity)
	if err != nil {
		return 0, err
	}
	return u * c / (1 - u), nil
}

func queueTime(agents, callsPerHour, aht float64) (float64, error) {
	l, err := agentLoad(agents, callsPerHour, aht)
	if err != nil {
		return 0, err
	}
	return l.queueTime(agents)
}

func asa(agents, callsPerHour, aht float64) (int, error) {
	l, err := agentLoad(agents, callsPerHour, aht)
	if err != nil {
		return 0, err
	}
	wait, err := l.answerTime(agents)
	if err != nil {
		return 0, err
	}
	return Secs(wait), nil
}

func abandon(agents, abandonTime, callsPerHour, aht float64) (float64, error) {
	if !valid(abandonTime) {
		return 0, invalid("abandonTime=%v", abandonTime)
	}
	l, err := agentLoad(agents, callsPerHour, aht)
	if err != nil {
		return 0, err
	}
	c, err := erlangC(agents, l.intensity)
	if err != nil {
		return 0, err
	}
	return clamp(c * math.Exp((l.intensity-agents)*abandonTime/l.aht)), nil
}

func sla(agents, serviceTime, callsPerHour, aht float64) (float64, error) {
	if !valid(serviceTime) {
		return 0, invalid("serviceTime=%v", serviceTime)
	}
	l, err := agentLoad(agents, callsPerHour, aht)
	if err != nil {
		return 0, err
	}
	return l.serviceLevel(agents, serviceTime)
}

func trunks(agents, callsPerHour, aht float64) (int, error) {
	l, err := agentLoad(agents, callsPerHour, aht)
	if err != nil {
		return 0, err
	}
	wait, err := l.answerTime(agents)
	if err != nil {
		return 0, err
	}

	// a waiting call holds its line as long as a talking one
	held := l.calls * (l.aht + wait*3600) / 3600
	n, err := numberTrunks(agents, held)
	if err != nil {
		return 0, err
	}
	if n < 1 && l.intensity > 0 {
		n = 1
	}
	return n, nil
}
