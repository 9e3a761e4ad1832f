package models

import "time"

// CallData represents the parsed input data for a customer call batch.
// It is shared across packages to schedule calls.
type CallData struct {
	CustomerName               string
	AverageCallDurationSeconds int
	StartTime                  time.Time
	EndTime                    time.Time
	Location                   *time.Location
	NumberOfCalls              int
	Priority                   int
	// TargetSLA is the fraction of calls to answer within ServiceTimeSeconds.
	// Zero means the planner default applies.
	TargetSLA float64
	// ServiceTimeSeconds is the answer-time threshold of the target.
	// Zero means the planner default applies.
	ServiceTimeSeconds int
}

// Schedule represents the agent requirements per hour.
type Schedule struct {
	// HourlyRequirements maps hour (0-23) to a list of customer requirements
	HourlyRequirements [][]CustomerRequirement
	// UnmetDemands tracks hours where capacity was exceeded
	UnmetDemands []UnmetDemand
}

// CustomerRequirement holds the number of agents needed for a specific customer.
type CustomerRequirement struct {
	Name         string
	AgentsNeeded int
	Location     *time.Location
	Priority     int
	// CallsPerHour is the arrival rate the requirement was sized for.
	CallsPerHour         float64
	AverageHandleSeconds int
	// FractionalAgents is the interpolated head-count before rounding and
	// the utilization gross-up.
	FractionalAgents float64
	Service          ServiceLevel
}

// ServiceLevel is the projected queue behaviour for a staffed requirement.
type ServiceLevel struct {
	TargetSLA          float64 `json:"target_sla" yaml:"target_sla"`
	ServiceTimeSeconds int     `json:"service_time_seconds" yaml:"service_time_seconds"`
	ExpectedSLA        float64 `json:"expected_sla" yaml:"expected_sla"`
	ASASeconds         int     `json:"asa_seconds" yaml:"asa_seconds"`
	Queued             float64 `json:"queued" yaml:"queued"`
	Occupancy          float64 `json:"occupancy" yaml:"occupancy"`
	Abandon            float64 `json:"abandon,omitempty" yaml:"abandon,omitempty"`
	Trunks             int     `json:"trunks" yaml:"trunks"`
}

// UnmetDemand tracks when demand cannot be met due to capacity constraints
type UnmetDemand struct {
	Hour            int
	TotalDemand     int
	AllocatedAgents int
	UnmetAgents     int
	ImpactedClients []ImpactedClient
}

// ImpactedClient represents a customer whose demand was not fully met
type ImpactedClient struct {
	Name            string  `json:"name" yaml:"name"`
	RequestedAgents int     `json:"requested_agents" yaml:"requested_agents"`
	AllocatedAgents int     `json:"allocated_agents" yaml:"allocated_agents"`
	UnmetAgents     int     `json:"unmet_agents" yaml:"unmet_agents"`
	Priority        int     `json:"priority" yaml:"priority"`
	ProjectedSLA    float64 `json:"projected_sla" yaml:"projected_sla"`
	ProjectedASA    int     `json:"projected_asa_seconds" yaml:"projected_asa_seconds"`
}
