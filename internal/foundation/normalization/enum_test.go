package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color string

var colors = NewEnum("color", map[string]color{
	"red":     "red",
	"crimson": "red",
	"Blue":    "blue",
}, "red")

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw   string
		want  color
		known bool
	}{
		{"red", "red", true},
		{"  CRIMSON ", "red", true},
		{"blue", "blue", true},
		{"green", "red", false},
		{"", "red", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, known := colors.Normalize(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestParse(t *testing.T) {
	got, err := colors.Parse("Blue")
	require.NoError(t, err)
	assert.Equal(t, color("blue"), got)

	_, err = colors.Parse("green")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid color "green"`)
	assert.Contains(t, err.Error(), "blue, crimson, red")
}

func TestKeysAreCopied(t *testing.T) {
	keys := colors.Keys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"blue", "crimson", "red"}, colors.Keys())
}
