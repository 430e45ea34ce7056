package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateCost(t *testing.T) {
	tests := []struct {
		name   string
		model  string
		in     int
		out    int
		wantEU float64
	}{
		{name: "gpt-4o", model: "gpt-4o", in: 1_000_000, out: 1_000_000, wantEU: 12.50 * 0.92},
		{name: "gpt-4o-mini", model: "gpt-4o-mini", in: 1_000_000, out: 0, wantEU: 0.15 * 0.92},
		{name: "dated mini variant", model: "gpt-4o-mini-2024-07-18", in: 0, out: 1_000_000, wantEU: 0.60 * 0.92},
		{name: "turbo", model: "gpt-4-turbo", in: 500_000, out: 0, wantEU: 5.0 * 0.92},
		{name: "unknown falls back to mini", model: "gemini-2.0-flash", in: 1_000_000, out: 0, wantEU: 0.15 * 0.92},
		{name: "no tokens", model: "gpt-4o", wantEU: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.wantEU, EstimateCost(tt.model, tt.in, tt.out), 1e-9)
		})
	}
}
