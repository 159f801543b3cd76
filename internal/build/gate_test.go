package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGate(t *testing.T) {
	tests := []struct {
		name         string
		failed       int
		changed      bool
		outputExists bool
		want         Decision
	}{
		{"failure blocks link even when changed", 1, true, true, DecisionSkipFailed},
		{"failure blocks link even without output", 2, false, false, DecisionSkipFailed},
		{"changed unit links", 0, true, true, DecisionLink},
		{"missing output links", 0, false, false, DecisionLink},
		{"changed and missing output links", 0, true, false, DecisionLink},
		{"nothing to do", 0, false, true, DecisionSkipNoop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Gate(tt.failed, tt.changed, tt.outputExists))
		})
	}
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "link", DecisionLink.String())
	assert.Equal(t, "skip-failed", DecisionSkipFailed.String())
	assert.Equal(t, "skip-noop", DecisionSkipNoop.String())
	assert.Equal(t, "unknown", Decision(42).String())
}
