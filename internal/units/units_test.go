package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAltitude_ImperialMatchesRoundedConversion(t *testing.T) {
	want := int64(math.Round(1000 * 3.28084))
	assert.Equal(t, int64(3281), want)
	assert.Equal(t, "3,281 ft", FormatAltitude(1000, Imperial))
	assert.Equal(t, want, Convert(1000, Imperial))
}

func TestFormatAltitude(t *testing.T) {
	tests := []struct {
		name   string
		meters float64
		system System
		want   string
	}{
		{"metric rounds half up", 4392.5, Metric, "4,393 m"},
		{"metric small", 812.2, Metric, "812 m"},
		{"imperial rainier", 4392, Imperial, "14,409 ft"},
		{"imperial zero", 0, Imperial, "0 ft"},
		{"metric million", 1234567, Metric, "1,234,567 m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAltitude(tt.meters, tt.system))
		})
	}
}

func TestFormatOptionalAltitude_NilIsEmpty(t *testing.T) {
	assert.Empty(t, FormatOptionalAltitude(nil, Metric))
	alt := 100.0
	assert.Equal(t, "100 m", FormatOptionalAltitude(&alt, Metric))
}

func TestParseAndToggle(t *testing.T) {
	assert.Equal(t, Metric, Parse(" Metric "))
	assert.Equal(t, Metric, Parse("m"))
	assert.Equal(t, Imperial, Parse(""))
	assert.Equal(t, Imperial, Parse("furlongs"))
	assert.Equal(t, Imperial, Metric.Toggle())
	assert.Equal(t, Metric, Imperial.Toggle())
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "1.5 km", FormatDistance(1500, Metric))
	assert.Equal(t, "1.0 mi", FormatDistance(1609.344, Imperial))
}
