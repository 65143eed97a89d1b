package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		width    int
		expected []string
	}{
		{
			name:     "simple wrap",
			text:     "hello world",
			width:    5,
			expected: []string{"hello", "world"},
		},
		{
			name:     "no wrap needed",
			text:     "hello",
			width:    10,
			expected: []string{"hello"},
		},
		{
			name:     "multiple wraps",
			text:     "this is a long text that needs wrapping",
			width:    10,
			expected: []string{"this is a", "long text", "that needs", "wrapping"},
		},
		{
			name:     "empty string",
			text:     "",
			width:    10,
			expected: nil,
		},
		{
			name:     "single word longer than width",
			text:     "supercalifragilistic",
			width:    10,
			expected: []string{"supercalifragilistic"},
		},
		{
			name:     "multiple spaces",
			text:     "hello    world",
			width:    20,
			expected: []string{"hello world"},
		},
		{
			name:     "wide characters",
			text:     "日本 語",
			width:    5,
			expected: []string{"日本", "語"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := Wrap(tt.text, tt.width)
			assert.Equal(t, tt.expected, result, "wrapped text mismatch for input %q with width %d", tt.text, tt.width)
		})
	}
}

func TestColumns(t *testing.T) {
	t.Parallel()

	t.Run("aligned", func(t *testing.T) {
		t.Parallel()
		out := Columns([]Row{
			{Name: "greet", Desc: "Greet a user"},
			{Name: "export", Desc: "Export data"},
			{Name: "bare"},
		}, 80)
		assert.Equal(t, ""+
			"  greet     Greet a user\n"+
			"  export    Export data\n"+
			"  bare\n", out)
	})
	t.Run("wrapped description", func(t *testing.T) {
		t.Parallel()
		out := Columns([]Row{
			{Name: "-x", Desc: "one two three four five six seven eight nine ten eleven twelve thirteen"},
		}, 28)
		// The description column starts at 2+2+4 = 8 and wraps at the minimum width of 20.
		assert.Equal(t, ""+
			"  -x    one two three four\n"+
			"        five six seven eight\n"+
			"        nine ten eleven\n"+
			"        twelve thirteen\n", out)
	})
}
