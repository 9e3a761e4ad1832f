package formatter

import (
	"agent-staffing/models"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ScheduleData holds prepared schedule data used by all formatters
type ScheduleData struct {
	Hours       []HourlyData
	UnmetByHour map[int]*models.UnmetDemand
}

// HourlyData groups requirements by location for an hour
type HourlyData struct {
	Hour         int                       `json:"hour" yaml:"hour"`
	Total        int                       `json:"total" yaml:"total"`
	LocationData map[string]*LocationGroup `json:"locations,omitempty" yaml:"locations,omitempty"`
	UnmetDemand  *UnmetDemandInfo          `json:"unmet_demand,omitempty" yaml:"unmet_demand,omitempty"`
}

// UnmetDemandInfo represents unmet demand for a specific hour
type UnmetDemandInfo struct {
	TotalDemand     int                     `json:"total_demand" yaml:"total_demand"`
	AllocatedAgents int                     `json:"allocated_agents" yaml:"allocated_agents"`
	UnmetAgents     int                     `json:"unmet_agents" yaml:"unmet_agents"`
	ImpactedClients []models.ImpactedClient `json:"impacted_clients" yaml:"impacted_clients"`
}

// LocationGroup holds customer data for a location
type LocationGroup struct {
	Total     int            `json:"total" yaml:"total"`
	Customers map[string]int `json:"customers" yaml:"customers"`
	// Service holds the projected queue behaviour of customers with traffic.
	Service map[string]models.ServiceLevel `json:"service,omitempty" yaml:"service,omitempty"`
}

// prepareScheduleData extracts and organizes schedule data for formatting
func prepareScheduleData(schedule *models.Schedule) *ScheduleData {
	// Create unmet demand lookup map
	unmetByHour := make(map[int]*models.UnmetDemand)
	for i := range schedule.UnmetDemands {
		unmetByHour[schedule.UnmetDemands[i].Hour] = &schedule.UnmetDemands[i]
	}

	// Process all hours
	hours := make([]HourlyData, 24)
	for h := range 24 {
		hours[h] = processHour(schedule, h)

		// Add unmet demand info if exists
		if unmet, exists := unmetByHour[h]; exists {
			clients := make([]models.ImpactedClient, len(unmet.ImpactedClients))
			copy(clients, unmet.ImpactedClients)
			hours[h].UnmetDemand = &UnmetDemandInfo{
				TotalDemand:     unmet.TotalDemand,
				AllocatedAgents: unmet.AllocatedAgents,
				UnmetAgents:     unmet.UnmetAgents,
				ImpactedClients: clients,
			}
		}
	}

	return &ScheduleData{
		Hours:       hours,
		UnmetByHour: unmetByHour,
	}
}

// FormatText returns the text representation of the schedule
func FormatText(schedule *models.Schedule) string {
	data := prepareScheduleData(schedule)
	var sb strings.Builder

	for _, hourData := range data.Hours {
		sb.WriteString(formatTextLine(hourData.Hour, hourData))
		sb.WriteString("\n")
		for _, line := range formatServiceLines(hourData) {
			sb.WriteString("  ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}

		// Add unmet demand warning if exists
		if hourData.UnmetDemand != nil {
			unmet := hourData.UnmetDemand
			sb.WriteString(fmt.Sprintf("  ⚠️  CAPACITY WARNING: Demand=%d, Allocated=%d, Unmet=%d\n",
				unmet.TotalDemand, unmet.AllocatedAgents, unmet.UnmetAgents))
			sb.WriteString("  Impacted clients:\n")
			for _, client := range unmet.ImpactedClients {
				sb.WriteString(fmt.Sprintf("    • %s [Priority %d]: Requested=%d, Allocated=%d, Unmet=%d, ProjectedSLA=%s, ProjectedASA=%ds\n",
					client.Name, client.Priority, client.RequestedAgents,
					client.AllocatedAgents, client.UnmetAgents,
					percent(client.ProjectedSLA), client.ProjectedASA))
			}
		}
	}

	return sb.String()
}

// FormatJSON returns the JSON representation of the schedule
func FormatJSON(schedule *models.Schedule) string {
	data := prepareScheduleData(schedule)
	jsonBytes, _ := json.MarshalIndent(data.Hours, "", "  ")
	return string(jsonBytes)
}

// FormatYAML returns the YAML representation of the schedule
func FormatYAML(schedule *models.Schedule) string {
	data := prepareScheduleData(schedule)
	yamlBytes, _ := yaml.Marshal(data.Hours)
	return string(yamlBytes)
}

// FormatCSV returns the CSV representation of the schedule
func FormatCSV(schedule *models.Schedule) string {
	data := prepareScheduleData(schedule)
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	// Write header
	writer.Write([]string{
		"Hour", "Total Agents", "Locations", "Customer Details",
		"Capacity Warning", "Total Demand", "Allocated", "Unmet", "Impacted Clients",
		"Service Levels",
	})

	for _, hourData := range data.Hours {
		writeHourToCSV(writer, hourData)
	}

	writer.Flush()
	return sb.String()
}

// writeHourToCSV writes a single hour's data to CSV
func writeHourToCSV(writer *csv.Writer, hourData HourlyData) {
	hour := hourData.Hour
	unmet := hourData.UnmetDemand

	if hourData.Total == 0 {
		// Empty hour
		writer.Write([]string{
			fmt.Sprintf("%02d:00", hour), "0", "", "",
			"No", "", "", "", "", "",
		})
		return
	}

	// Build location list
	locations := getSortedLocations(hourData.LocationData)
	locationList := strings.Join(locations, "; ")

	// Build customer details with format: "Customer1(loc1,agents=5); Customer2(loc2,agents=3)"
	var customerDetails []string
	for _, loc := range locations {
		locData := hourData.LocationData[loc]
		customers := getSortedCustomers(locData.Customers)

		for _, customer := range customers {
			agents := locData.Customers[customer]
			customerDetails = append(customerDetails,
				fmt.Sprintf("%s(%s,agents=%d)", customer, loc, agents))
		}
	}
	customerDetailsStr := strings.Join(customerDetails, "; ")

	// Build impacted clients string
	var impactedClientsStr string
	if unmet != nil {
		var impactedParts []string
		for _, client := range unmet.ImpactedClients {
			impactedParts = append(impactedParts,
				fmt.Sprintf("%s(priority=%d,requested=%d,allocated=%d,unmet=%d,projected_sla=%.4f,projected_asa=%d)",
					client.Name, client.Priority, client.RequestedAgents,
					client.AllocatedAgents, client.UnmetAgents,
					client.ProjectedSLA, client.ProjectedASA))
		}
		impactedClientsStr = strings.Join(impactedParts, "; ")
	}

	// Build single row for this hour
	row := []string{
		fmt.Sprintf("%02d:00", hour),
		fmt.Sprintf("%d", hourData.Total),
		locationList,
		customerDetailsStr,
	}

	if unmet != nil {
		row = append(row,
			"Yes",
			fmt.Sprintf("%d", unmet.TotalDemand),
			fmt.Sprintf("%d", unmet.AllocatedAgents),
			fmt.Sprintf("%d", unmet.UnmetAgents),
			impactedClientsStr,
		)
	} else {
		row = append(row, "No", "", "", "", "")
	}
	row = append(row, strings.Join(formatServiceLines(hourData), "; "))

	writer.Write(row)
}

// processHour groups requirements by location for a given hour
func processHour(schedule *models.Schedule, hour int) HourlyData {
	data := HourlyData{
		Hour:         hour,
		LocationData: make(map[string]*LocationGroup),
	}

	if hour >= len(schedule.HourlyRequirements) {
		return data
	}

	requirements := schedule.HourlyRequirements[hour]

	for _, req := range requirements {
		locName := req.Location.String()

		if _, exists := data.LocationData[locName]; !exists {
			data.LocationData[locName] = &LocationGroup{
				Customers: make(map[string]int),
			}
		}

		group := data.LocationData[locName]
		group.Customers[req.Name] = req.AgentsNeeded
		group.Total += req.AgentsNeeded
		if req.CallsPerHour > 0 {
			if group.Service == nil {
				group.Service = make(map[string]models.ServiceLevel)
			}
			group.Service[req.Name] = req.Service
		}
		data.Total += req.AgentsNeeded
	}

	return data
}

// formatTextLine formats a single hour line for text output
func formatTextLine(hour int, data HourlyData) string {
	if data.Total == 0 {
		return fmt.Sprintf("%02d:00 : total=0 ; none", hour)
	}

	var parts []string
	locations := getSortedLocations(data.LocationData)

	for _, loc := range locations {
		locData := data.LocationData[loc]
		var locParts []string
		locParts = append(locParts, fmt.Sprintf("total=%d", locData.Total))

		customers := getSortedCustomers(locData.Customers)
		for _, customer := range customers {
			locParts = append(locParts, fmt.Sprintf("%s=%d", customer, locData.Customers[customer]))
		}

		parts = append(parts, fmt.Sprintf("%s: %s", loc, strings.Join(locParts, ", ")))
	}

	return fmt.Sprintf("%02d:00 : total=%d ; [%s]", hour, data.Total, strings.Join(parts, ", "))
}

// getSortedLocations returns sorted location names
func getSortedLocations(locationData map[string]*LocationGroup) []string {
	locations := make([]string, 0, len(locationData))
	for loc := range locationData {
		locations = append(locations, loc)
	}
	sort.Strings(locations)
	return locations
}

// getSortedCustomers returns sorted customer names
func getSortedCustomers(customers map[string]int) []string {
	names := make([]string, 0, len(customers))
	for name := range customers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// formatServiceLines describes the projected service of each customer with
// traffic in the hour, ordered by location then customer.
func formatServiceLines(data HourlyData) []string {
	var lines []string
	for _, loc := range getSortedLocations(data.LocationData) {
		services := data.LocationData[loc].Service
		names := make([]string, 0, len(services))
		for name := range services {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			svc := services[name]
			line := fmt.Sprintf("%s: sla=%s (target %s in %ds), asa=%ds, occupancy=%s, trunks=%d",
				name, percent(svc.ExpectedSLA), percent(svc.TargetSLA), svc.ServiceTimeSeconds,
				svc.ASASeconds, percent(svc.Occupancy), svc.Trunks)
			if svc.Abandon > 0 {
				line += ", abandon=" + percent(svc.Abandon)
			}
			lines = append(lines, line)
		}
	}
	return lines
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
