package roadgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTravelSpeed(t *testing.T) {
	tests := []struct {
		highway  string
		maxspeed string
		want     float64
	}{
		{"residential", "", 30},
		{"primary", "100", 90},
		{"primary", "30 mph", 0.9 * 30 * 1.609344},
		{"secondary", "50; 30", 45},
		{"secondary", "signals", 60},
		{"track", "", 20},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, TravelSpeed(tt.highway, tt.maxspeed), 1e-9, "%s/%s", tt.highway, tt.maxspeed)
	}
}

func TestOneway(t *testing.T) {
	assert.Equal(t, 1, Oneway("residential", "yes", ""))
	assert.Equal(t, -1, Oneway("residential", "-1", ""))
	assert.Equal(t, 0, Oneway("residential", "", ""))
	assert.Equal(t, 1, Oneway("motorway", "", ""))
	assert.Equal(t, 0, Oneway("motorway", "no", ""))
	assert.Equal(t, 1, Oneway("tertiary", "", "roundabout"))
	assert.False(t, Drivable("footway"))
	assert.True(t, Drivable("service"))
}
