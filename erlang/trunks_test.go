package erlang_test

import (
	"fmt"
	"testing"

	"agent-staffing/erlang"

	"github.com/stretchr/testify/assert"
)

func TestNbTrunks(t *testing.T) {
	tests := map[string]struct {
		intensity float64
		blocking  float64
		expected  int
	}{
		"TenErlangsOnePercent":  {intensity: 10, blocking: 0.01, expected: 18},
		"FiveErlangsOnePercent": {intensity: 5, blocking: 0.01, expected: 11},
		"ZeroIntensity":         {intensity: 0, blocking: 0.01, expected: 0},
		"ZeroBlocking":          {intensity: 5, blocking: 0, expected: 0},
		"BeyondSearchBound":     {intensity: 70000, blocking: 0.01, expected: 0},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := erlang.NbTrunks(tc.intensity, tc.blocking)
			assert.Equal(t, tc.expected, got)
			if got > 0 {
				assert.LessOrEqual(t, erlang.ErlangB(float64(got), tc.intensity), tc.blocking)
				assert.Greater(t, erlang.ErlangB(float64(got-1), tc.intensity), tc.blocking)
			}
		})
	}
}

func TestNumberTrunks(t *testing.T) {
	tests := map[string]struct {
		servers   float64
		intensity float64
		expected  int
	}{
		"TenErlangs":      {servers: 10, intensity: 10, expected: 21},
		"FiveErlangs":     {servers: 8, intensity: 5, expected: 14},
		"StartAboveNeed":  {servers: 30, intensity: 5, expected: 30},
		"NoTraffic":       {servers: 0, intensity: 0, expected: 1},
		"NegativeServers": {servers: -1, intensity: 5, expected: 0},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, erlang.NumberTrunks(tc.servers, tc.intensity))
		})
	}
}

func TestServers(t *testing.T) {
	tests := map[string]struct {
		blocking  float64
		intensity float64
		expected  int
	}{
		"TenErlangsOnePercent":  {blocking: 0.01, intensity: 10, expected: 18},
		"FiveErlangsOnePercent": {blocking: 0.01, intensity: 5, expected: 11},
		"TargetAlreadyMet":      {blocking: 1, intensity: 5, expected: 0},
		"NegativeBlocking":      {blocking: -0.1, intensity: 5, expected: 0},
		"Exhausted":             {blocking: 0, intensity: 1e6, expected: 0},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, erlang.Servers(tc.blocking, tc.intensity))
		})
	}
}

func TestServers_AgreesWithNbTrunks(t *testing.T) {
	for _, intensity := range []float64{1, 3.5, 10, 25} {
		for _, blocking := range []float64{0.05, 0.02, 0.01} {
			assert.Equal(t, erlang.NbTrunks(intensity, blocking), erlang.Servers(blocking, intensity),
				"intensity=%v blocking=%v", intensity, blocking)
		}
	}
}

func TestTraffic(t *testing.T) {
	tests := map[string]struct {
		servers  float64
		blocking float64
		expected float64
	}{
		"TenTrunksOnePercent": {servers: 10, blocking: 0.01, expected: 4.46117},
		"FiveTrunksTwoPct":    {servers: 5, blocking: 0.02, expected: 1.65714},
		"OneTrunkHalf":        {servers: 1, blocking: 0.5, expected: 1},
		"ZeroBlocking":        {servers: 10, blocking: 0, expected: 0},
		"CertainBlocking":     {servers: 10, blocking: 1, expected: 0},
		"LessThanOneTrunk":    {servers: 0.5, blocking: 0.01, expected: 0},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, erlang.Traffic(tc.servers, tc.blocking), 2*erlang.MaxAccuracy)
		})
	}
}

func TestTraffic_RoundTrip(t *testing.T) {
	pairs := []struct {
		servers   float64
		intensity float64
	}{
		{1, 1}, {2, 0.5}, {5, 3}, {10, 7.5}, {20, 2}, {20, 30},
		{50, 40}, {100, 90}, {200, 160}, {500, 450}, {1000, 800},
	}

	for _, p := range pairs {
		t.Run(fmt.Sprintf("%v_%v", p.servers, p.intensity), func(t *testing.T) {
			blocking := erlang.ErlangB(p.servers, p.intensity)
			got := erlang.Traffic(p.servers, blocking)
			assert.InDelta(t, p.intensity, got, erlang.MaxAccuracy)
			assert.LessOrEqual(t, erlang.ErlangB(p.servers, got), blocking)
		})
	}
}
