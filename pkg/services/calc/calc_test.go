package calc

import (
	"math"
	"testing"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/stretchr/testify/assert"
)

func TestDiv(t *testing.T) {
	assert.Equal(t, 0.0, Div(500000, 0))
	assert.Equal(t, 0.0, Div(0, 0))
	assert.Equal(t, 2.5, Div(5, 2))
	assert.Equal(t, 0.0, Div(math.Inf(1), 1))
	assert.Equal(t, 50.0, Percent(1, 2))
	assert.Equal(t, 0.0, Percent(3, 0))
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name      string
		current   float64
		previous  float64
		change    float64
		direction domain.Direction
	}{
		{"growth", 150, 100, 50, domain.DirectionUp},
		{"decline", 50, 100, -50, domain.DirectionDown},
		{"flat", 100, 100, 0, domain.DirectionStable},
		{"both zero", 0, 0, 0, domain.DirectionStable},
		{"from zero", 10, 0, 100, domain.DirectionUp},
		{"negative base improving", -10, -20, 50, domain.DirectionUp},
		{"tiny change rounds to stable", 100.0001, 100, 0, domain.DirectionStable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Compare(tc.current, tc.previous)
			assert.Equal(t, tc.change, c.ChangePercent)
			assert.Equal(t, tc.direction, c.Direction)
		})
	}
}

func TestClampInt(t *testing.T) {
	assert.Equal(t, 10, ClampInt(14, -10, 10))
	assert.Equal(t, -10, ClampInt(-11, -10, 10))
	assert.Equal(t, 3, ClampInt(3, -10, 10))
}
