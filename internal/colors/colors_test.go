package colors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"#ff0000", Color{255, 0, 0, 255}, true},
		{"#0f0", Color{0, 255, 0, 255}, true},
		{"#800000ff", Color{0, 0, 255, 128}, true},
		{"red", Color{255, 0, 0, 255}, true},
		{"SteelBlue", Color{70, 130, 180, 255}, true},
		{"transparent", Color{}, true},
		{"#fff000800", Color{255, 0, 128, 255}, true},
		{"#ffff00008000", Color{255, 0, 128, 255}, true},
		{"#1234abcd0000", Color{18, 171, 0, 255}, true},
		{"", Color{}, false},
		{" white ", Color{}, false},
		{" #ff0000", Color{}, false},
		{"#fff00080g", Color{}, false},
		{"#ffff0000800", Color{}, false},
		{"#12", Color{}, false},
		{"#gg0000", Color{}, false},
		{"notacolor", Color{}, false},
		{"parent.color", Color{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Parse(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestHex(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "#ff0000", Color{255, 0, 0, 255}.Hex())
	assert.Equal(t, "#800000ff", Color{0, 0, 255, 128}.Hex())
	assert.Equal(t, "#00000000", Color{}.String())
}
