package cli

import (
	"agent-staffing/erlang"
	"agent-staffing/errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// calculation is one erlang function exposed as `calc <name> <args...>`.
type calculation struct {
	name  string
	args  []string
	short string
	run   func(a []float64) string
}

func intResult(n int) string {
	return strconv.Itoa(n)
}

func floatResult(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var calculations = []calculation{
	{"erlang-b", []string{"servers", "intensity"}, "Probability that a call is blocked",
		func(a []float64) string { return floatResult(erlang.ErlangB(a[0], a[1])) }},
	{"erlang-c", []string{"servers", "intensity"}, "Probability that a call has to wait",
		func(a []float64) string { return floatResult(erlang.ErlangC(a[0], a[1])) }},
	{"nb-trunks", []string{"intensity", "blocking"}, "Fewest lines that keep blocking at or below the target",
		func(a []float64) string { return intResult(erlang.NbTrunks(a[0], a[1])) }},
	{"number-trunks", []string{"servers", "intensity"}, "Lines for the given servers with blocking below 0.001",
		func(a []float64) string { return intResult(erlang.NumberTrunks(a[0], a[1])) }},
	{"servers", []string{"blocking", "intensity"}, "Fewest servers that keep blocking below the target",
		func(a []float64) string { return intResult(erlang.Servers(a[0], a[1])) }},
	{"traffic", []string{"servers", "blocking"}, "Most traffic in Erlangs the servers carry at the blocking target",
		func(a []float64) string { return floatResult(erlang.Traffic(a[0], a[1])) }},
	{"agents", []string{"sla", "service-time", "calls-per-hour", "aht"}, "Fewest agents that meet the service level",
		func(a []float64) string { return intResult(erlang.Agents(a[0], a[1], a[2], a[3])) }},
	{"fractional-agents", []string{"sla", "service-time", "calls-per-hour", "aht"}, "Interpolated agents that meet the service level",
		func(a []float64) string { return floatResult(erlang.FractionalAgents(a[0], a[1], a[2], a[3])) }},
	{"agents-asa", []string{"asa", "calls-per-hour", "aht"}, "Fewest agents that keep the average speed of answer at the target",
		func(a []float64) string { return intResult(erlang.AgentsASA(a[0], a[1], a[2])) }},
	{"nb-agents", []string{"calls-per-hour", "asa", "aht"}, "Fewest agents whose rounded average speed of answer meets the target",
		func(a []float64) string { return intResult(erlang.NbAgents(a[0], a[1], a[2])) }},
	{"call-capacity", []string{"agents", "sla", "service-time", "aht"}, "Most calls per hour the agents handle at the service level",
		func(a []float64) string { return intResult(erlang.CallCapacity(a[0], a[1], a[2], a[3])) }},
	{"fractional-call-capacity", []string{"agents", "sla", "service-time", "aht"}, "Call capacity for a fractional agent count",
		func(a []float64) string { return intResult(erlang.FractionalCallCapacity(a[0], a[1], a[2], a[3])) }},
	{"service-time", []string{"agents", "sla", "calls-per-hour", "aht"}, "Answer time in seconds the agents meet for the sla fraction",
		func(a []float64) string { return intResult(erlang.ServiceTime(a[0], a[1], a[2], a[3])) }},
	{"utilisation", []string{"agents", "calls-per-hour", "aht"}, "Share of agent time spent on calls",
		func(a []float64) string { return floatResult(erlang.Utilisation(a[0], a[1], a[2])) }},
	{"queued", []string{"agents", "calls-per-hour", "aht"}, "Probability that a call queues",
		func(a []float64) string { return floatResult(erlang.Queued(a[0], a[1], a[2])) }},
	{"queue-size", []string{"agents", "calls-per-hour", "aht"}, "Mean calls waiting, rounded",
		func(a []float64) string { return intResult(erlang.QueueSize(a[0], a[1], a[2])) }},
	{"fractional-queue-size", []string{"agents", "calls-per-hour", "aht"}, "Mean calls waiting to one decimal",
		func(a []float64) string { return floatResult(erlang.FractionalQueueSize(a[0], a[1], a[2])) }},
	{"queue-time", []string{"agents", "calls-per-hour", "aht"}, "Mean wait of a queued call, in hours and seconds",
		func(a []float64) string {
			hours := erlang.QueueTime(a[0], a[1], a[2])
			return fmt.Sprintf("%s (%ds)", floatResult(hours), erlang.Secs(hours))
		}},
	{"asa", []string{"agents", "calls-per-hour", "aht"}, "Average speed of answer in seconds",
		func(a []float64) string { return intResult(erlang.ASA(a[0], a[1], a[2])) }},
	{"abandon", []string{"agents", "abandon-time", "calls-per-hour", "aht"}, "Probability that a caller hangs up before answer",
		func(a []float64) string { return floatResult(erlang.Abandon(a[0], a[1], a[2], a[3])) }},
	{"sla", []string{"agents", "service-time", "calls-per-hour", "aht"}, "Fraction of calls answered within the service time",
		func(a []float64) string { return floatResult(erlang.SLA(a[0], a[1], a[2], a[3])) }},
	{"trunks", []string{"agents", "calls-per-hour", "aht"}, "Lines for talking and waiting calls",
		func(a []float64) string { return intResult(erlang.Trunks(a[0], a[1], a[2])) }},
	{"secs", []string{"hours"}, "Hours as whole seconds",
		func(a []float64) string { return intResult(erlang.Secs(a[0])) }},
}

func newCalcCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Evaluate a single Erlang formula",
		Long: `calc evaluates one staffing formula on positional numeric arguments.
Rates are calls per hour and times are seconds. Inputs without a meaningful
answer print 0.`,
	}
	for _, c := range calculations {
		cmd.AddCommand(newCalculationCommand(c))
	}
	return cmd
}

func newCalculationCommand(c calculation) *cobra.Command {
	upper := make([]string, len(c.args))
	for i, a := range c.args {
		upper[i] = strings.ToUpper(strings.ReplaceAll(a, "-", "_"))
	}

	return &cobra.Command{
		Use:   c.name + " " + strings.Join(upper, " "),
		Short: c.short,
		Args:  cobra.ExactArgs(len(c.args)),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make([]float64, len(args))
			for i, arg := range args {
				v, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("%w: %s %q is not a number", errors.ErrInvalidInput, c.args[i], arg)
				}
				values[i] = v
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.run(values))
			return nil
		},
	}
}
