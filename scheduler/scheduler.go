package scheduler

import (
	"agent-staffing/erlang"
	"agent-staffing/metrics"
	"agent-staffing/models"
	"math"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Options controls how call volume is turned into head-count.
type Options struct {
	// Utilization is the share of scheduled agent time spent on calls, in (0, 1].
	Utilization float64
	// CapacityPerHour caps the agents available in any hour; 0 is unlimited.
	CapacityPerHour int
	// TargetSLA and ServiceTimeSeconds apply to rows that carry no target.
	TargetSLA          float64
	ServiceTimeSeconds int
	// MaxOccupancy raises staffing until utilisation of working agents is at
	// or below it; 0 disables the cap.
	MaxOccupancy float64
	// AbandonTimeSeconds enables abandonment projections when positive.
	AbandonTimeSeconds int
	Logger             *zap.Logger
}

// DefaultOptions answers 80% of calls within 20 seconds with no capacity limit.
func DefaultOptions() Options {
	return Options{
		Utilization:        1.0,
		TargetSLA:          0.8,
		ServiceTimeSeconds: 20,
	}
}

// GenerateSchedule calculates the number of agents needed per hour for each customer.
func GenerateSchedule(data []models.CallData, opts Options) *models.Schedule {
	start := time.Now()
	defer func() {
		metrics.SchedulerDurationSeconds.Observe(time.Since(start).Seconds())
	}()
	metrics.ResetSchedulerGauges()
	metrics.SchedulerCustomersProcessed.Observe(float64(len(data)))

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Utilization <= 0 || opts.Utilization > 1 {
		opts.Utilization = 1
	}

	hourlyRequests := make([][]models.CustomerRequirement, 24)
	for h := range 24 {
		hourlyRequests[h] = make([]models.CustomerRequirement, 0)
	}

	for _, cd := range data {
		start := cd.StartTime
		end := cd.EndTime

		// Handle overnight shifts (e.g., 9PM to 5AM)
		if end.Before(start) {
			end = end.Add(24 * time.Hour)
		}

		// Find the elapsed duration in hours and not use wall clock to
		// account for DST.
		durationHours := end.Sub(start).Hours()
		if durationHours <= 0 {
			continue
		}

		// Calls arrive evenly over the window, so every slot it touches sees
		// the same arrival rate and needs the same staffing.
		callsPerHour := float64(cd.NumberOfCalls) / durationHours
		req := sizeRequirement(cd, callsPerHour, opts, logger)

		// Determine the hour boundaries to schedule
		// Round start down to hour boundary, round end up to hour boundary
		startHourBoundary := time.Date(start.Year(), start.Month(), start.Day(),
			start.Hour(), 0, 0, 0, start.Location())
		endHourBoundary := time.Date(end.Year(), end.Month(), end.Day(),
			end.Hour(), 0, 0, 0, end.Location())

		// If end time has minutes/seconds, we need to include that hour too
		if end.After(endHourBoundary) {
			endHourBoundary = endHourBoundary.Add(time.Hour)
		}

		// Iterate hour by hour at hourly boundaries
		for t := startHourBoundary; t.Before(endHourBoundary); t = t.Add(time.Hour) {
			hourStart := t
			hourEnd := t.Add(time.Hour)

			// Clamp to actual work window
			actualStart := hourStart
			if start.After(hourStart) {
				actualStart = start
			}
			actualEnd := hourEnd
			if end.Before(hourEnd) {
				actualEnd = end
			}
			if actualEnd.Sub(actualStart) <= 0 {
				continue
			}

			localTime := t
			if cd.Location != nil {
				localTime = t.In(cd.Location)
			}
			h := localTime.Hour()
			hourlyRequests[h] = append(hourlyRequests[h], req)
		}
	}

	schedule := models.Schedule{
		HourlyRequirements: hourlyRequests,
		UnmetDemands:       make([]models.UnmetDemand, 0),
	}

	demanded := 0
	for h := range 24 {
		for _, req := range hourlyRequests[h] {
			demanded += req.AgentsNeeded
		}
	}
	metrics.AgentsDemandedTotal.Set(float64(demanded))

	// Apply capacity constraints if capacityPerHour > 0
	if opts.CapacityPerHour > 0 {
		for h := range 24 {
			allocated, unmet := allocateWithConstraints(hourlyRequests[h], opts.CapacityPerHour, opts)
			schedule.HourlyRequirements[h] = allocated
			if unmet != nil {
				unmet.Hour = h
				schedule.UnmetDemands = append(schedule.UnmetDemands, *unmet)
				logger.Info("capacity exceeded",
					zap.Int("hour", h),
					zap.Int("demand", unmet.TotalDemand),
					zap.Int("unmet", unmet.UnmetAgents),
					zap.Int("impactedClients", len(unmet.ImpactedClients)))
			}
		}
	}

	recordOutcome(&schedule, opts.CapacityPerHour)
	return &schedule
}

// sizeRequirement staffs one customer at the given arrival rate.
func sizeRequirement(cd models.CallData, callsPerHour float64, opts Options, logger *zap.Logger) models.CustomerRequirement {
	req := models.CustomerRequirement{
		Name:                 cd.CustomerName,
		Location:             cd.Location,
		Priority:             cd.Priority,
		CallsPerHour:         callsPerHour,
		AverageHandleSeconds: cd.AverageCallDurationSeconds,
	}
	target := cd.TargetSLA
	if target == 0 {
		target = opts.TargetSLA
	}
	serviceTime := cd.ServiceTimeSeconds
	if serviceTime == 0 {
		serviceTime = opts.ServiceTimeSeconds
	}
	req.Service.TargetSLA = target
	req.Service.ServiceTimeSeconds = serviceTime
	if callsPerHour <= 0 {
		return req
	}

	aht := float64(cd.AverageCallDurationSeconds)
	working := erlang.Agents(target, float64(serviceTime), callsPerHour, aht)
	if working == 0 {
		// no count within the search bound meets the target; staff for load
		working = int(math.Ceil(callsPerHour * aht / 3600))
		metrics.StaffingUnreachableTargets.Inc()
		metrics.StaffingCalculationsTotal.WithLabelValues("unreachable").Inc()
		logger.Warn("service level target unreachable, staffing for offered load",
			zap.String("customer", cd.CustomerName),
			zap.Float64("callsPerHour", callsPerHour),
			zap.Float64("targetSLA", target),
			zap.Int("serviceTimeSeconds", serviceTime),
			zap.Int("agents", working))
	} else {
		metrics.StaffingCalculationsTotal.WithLabelValues("solved").Inc()
		req.FractionalAgents = erlang.FractionalAgents(target, float64(serviceTime), callsPerHour, aht)
	}

	if opts.MaxOccupancy > 0 {
		for erlang.Utilisation(float64(working), callsPerHour, aht) > opts.MaxOccupancy {
			working++
		}
	}

	req.Service = describe(req, working, opts.AbandonTimeSeconds)
	// Adjust agents needed based on utilization
	req.AgentsNeeded = int(math.Ceil(float64(working) / opts.Utilization))

	logger.Debug("sized requirement",
		zap.String("customer", cd.CustomerName),
		zap.Float64("callsPerHour", callsPerHour),
		zap.Int("workingAgents", working),
		zap.Int("scheduledAgents", req.AgentsNeeded),
		zap.Float64("expectedSLA", req.Service.ExpectedSLA))
	return req
}

// describe projects the queue behaviour of a requirement staffed with the
// given number of agents on the phones.
func describe(req models.CustomerRequirement, working int, abandonTime int) models.ServiceLevel {
	svc := req.Service
	n := float64(working)
	calls := req.CallsPerHour
	aht := float64(req.AverageHandleSeconds)

	svc.ExpectedSLA = erlang.SLA(n, float64(svc.ServiceTimeSeconds), calls, aht)
	svc.ASASeconds = erlang.ASA(n, calls, aht)
	svc.Queued = erlang.Queued(n, calls, aht)
	svc.Occupancy = erlang.Utilisation(n, calls, aht)
	svc.Trunks = erlang.Trunks(n, calls, aht)
	svc.Abandon = 0
	if abandonTime > 0 {
		svc.Abandon = erlang.Abandon(n, float64(abandonTime), calls, aht)
	}
	return svc
}

// workingAgents is the share of a scheduled head-count that takes calls.
func workingAgents(scheduled int, utilization float64) int {
	return int(math.Floor(float64(scheduled) * utilization))
}

// allocateWithConstraints performs priority-based allocation.
// Time: O(n log n) for sort + O(n) for allocation = O(n log n)
// Space: O(n) for output slices (no extra map overhead)
func allocateWithConstraints(requests []models.CustomerRequirement, capacity int, opts Options) ([]models.CustomerRequirement, *models.UnmetDemand) {
	if len(requests) == 0 {
		return nil, nil
	}

	// Calculate total demand: O(n)
	totalDemand := 0
	for _, req := range requests {
		totalDemand += req.AgentsNeeded
	}

	// Fast path: if capacity exceeds demand, no allocation logic needed
	if capacity >= totalDemand {
		return requests, nil
	}

	// Sort by priority (1 = highest): O(n log n)
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].Priority < requests[j].Priority
	})

	// Pre-allocate with capacity hints to reduce reallocations
	allocated := make([]models.CustomerRequirement, 0, len(requests))
	impactedClients := make([]models.ImpactedClient, 0)
	remaining := capacity

	// Single pass allocation: O(n)
	for _, req := range requests {
		if remaining <= 0 {
			// No capacity left - fully unmet
			impactedClients = append(impactedClients, impacted(req, 0, opts))
			continue
		}

		if remaining >= req.AgentsNeeded {
			// Full allocation
			allocated = append(allocated, req)
			remaining -= req.AgentsNeeded
		} else {
			// Partial allocation - give what's left
			partial := req
			partial.AgentsNeeded = remaining
			partial.Service = describe(req, workingAgents(remaining, opts.Utilization), opts.AbandonTimeSeconds)
			allocated = append(allocated, partial)
			impactedClients = append(impactedClients, impacted(req, remaining, opts))
			remaining = 0
		}
	}

	// Only create UnmetDemand if there are impacted clients
	if len(impactedClients) > 0 {
		return allocated, &models.UnmetDemand{
			TotalDemand:     totalDemand,
			AllocatedAgents: capacity,
			UnmetAgents:     totalDemand - capacity,
			ImpactedClients: impactedClients,
		}
	}
	return allocated, nil
}

// impacted reports a requirement that received fewer agents than requested,
// with the service it can expect from what it did receive.
func impacted(req models.CustomerRequirement, allocated int, opts Options) models.ImpactedClient {
	projected := describe(req, workingAgents(allocated, opts.Utilization), 0)
	return models.ImpactedClient{
		Name:            req.Name,
		RequestedAgents: req.AgentsNeeded,
		AllocatedAgents: allocated,
		UnmetAgents:     req.AgentsNeeded - allocated,
		Priority:        req.Priority,
		ProjectedSLA:    projected.ExpectedSLA,
		ProjectedASA:    projected.ASASeconds,
	}
}

// recordOutcome publishes the allocation results of a finished schedule.
func recordOutcome(schedule *models.Schedule, capacity int) {
	allocated := 0
	for _, reqs := range schedule.HourlyRequirements {
		for _, req := range reqs {
			allocated += req.AgentsNeeded
			if req.CallsPerHour > 0 {
				metrics.StaffingExpectedServiceLevel.Observe(req.Service.ExpectedSLA)
			}
		}
	}
	metrics.AgentsAllocatedTotal.Set(float64(allocated))
	if capacity > 0 {
		metrics.SchedulerCapacityUsed.Set(float64(allocated))
	}

	unmetTotal := 0
	unmetByPriority := make(map[int]int)
	shortfall := make(map[string]bool)
	for _, unmet := range schedule.UnmetDemands {
		unmetTotal += unmet.UnmetAgents
		for _, client := range unmet.ImpactedClients {
			unmetByPriority[client.Priority] += client.UnmetAgents
			if client.Priority != 1 {
				continue
			}
			shortfall[hourKey(unmet.Hour, client.Name)] = true
			if client.AllocatedAgents == 0 {
				metrics.HighPriorityUnsatisfied.Inc()
			} else {
				metrics.HighPriorityPartiallySatisfied.Inc()
			}
		}
	}
	for h, reqs := range schedule.HourlyRequirements {
		for _, req := range reqs {
			if req.Priority == 1 && !shortfall[hourKey(h, req.Name)] {
				metrics.HighPriorityFullySatisfied.Inc()
			}
		}
	}

	metrics.AgentsUnmetTotal.Set(float64(unmetTotal))
	metrics.HoursWithUnmetDemand.Set(float64(len(schedule.UnmetDemands)))
	for priority, agents := range unmetByPriority {
		metrics.UnmetDemandByPriority.WithLabelValues(strconv.Itoa(priority)).Set(float64(agents))
	}
}

func hourKey(hour int, name string) string {
	return strconv.Itoa(hour) + "/" + name
}
