package pitch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKnownSpellings(t *testing.T) {
	cases := []struct {
		spelling string
		key      uint8
	}{
		{"C4", 60},
		{"A4", 69},
		{"C#4", 61},
		{"D-4", 61},
		{"Db4", 61},
		{"B3", 59},
		{"G9", 127},
		{"F##3", 55},
		// flat reading wins over a negative octave reading
		{"C-1", 23},
	}

	for _, c := range cases {
		t.Run(c.spelling, func(t *testing.T) {
			key, err := Parse(c.spelling)
			assert := assert.New(t)
			assert.NoError(err)
			assert.Equal(c.key, key)
		})
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, spelling := range []string{"", "H4", "C", "C#", "4", "Rest", "C4x"} {
		_, err := Parse(spelling)
		assert.Error(t, err, "expected error for %q", spelling)
	}
}

func TestParseRejectsOutOfRange(t *testing.T) {
	for _, spelling := range []string{"A10", "B#9"} {
		_, err := Parse(spelling)
		assert.Error(t, err, "expected error for %q", spelling)
	}
}

func TestNameRoundTripsThroughParse(t *testing.T) {
	// keys 0-11 spell with octave -1, which reads back as a flat
	for key := 12; key < 128; key++ {
		name := Name(uint8(key))
		t.Run(fmt.Sprintf("%v=%v", key, name), func(t *testing.T) {
			parsed, err := Parse(name)
			assert := assert.New(t)
			assert.NoError(err)
			assert.Equal(uint8(key), parsed)
		})
	}
}
