// Package pitch converts between pitch spellings like "C4", "F#3" or "E-5"
// and MIDI key numbers. Middle C (key 60) is C4. Sharps are '#', flats are
// '-' or 'b'; multiple accidentals stack.
//
// A '-' before the octave always reads as a flat, so spellings for the
// sub-audible octave -1 (keys 0-11) do not parse back to their own key.
// Notation libraries that use this grammar share the gap.
package pitch

import (
	"fmt"
	"strconv"
)

var stepToClass = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// Names uses the sharp spelling for black keys.
var classToName = [12]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

// Parse turns a spelling into a MIDI key number.
func Parse(spelling string) (uint8, error) {
	if spelling == "" {
		return 0, fmt.Errorf("empty pitch spelling")
	}
	class, ok := stepToClass[spelling[0]]
	if !ok {
		return 0, fmt.Errorf("bad pitch step in %q", spelling)
	}

	i := 1
AccidentalLoop:
	for ; i < len(spelling); i++ {
		switch spelling[i] {
		case '#':
			class++
		case '-', 'b':
			class--
		default:
			break AccidentalLoop
		}
	}
	oct, err := strconv.Atoi(spelling[i:])
	if err != nil {
		return 0, fmt.Errorf("bad octave in %q", spelling)
	}

	key := (oct+1)*12 + class
	if key < 0 || key > 127 {
		return 0, fmt.Errorf("pitch %q out of midi range", spelling)
	}
	return uint8(key), nil
}

// Name turns a MIDI key number into its sharp-preferring spelling.
func Name(key uint8) string {
	return fmt.Sprintf("%v%v", classToName[key%12], int(key)/12-1)
}
