package domain

import (
	"fmt"
	"strconv"
)

// Scale holds the seven diatonic degrees of a major key, tonic first.
type Scale [7]Note

// Key returns the tonic.
func (s Scale) Key() Note { return s[0] }

// At returns the note on the given step.
func (s Scale) At(step ScaleStep) Note { return s[step.Index()] }

// Scales lists every quizzed major key. F# and Gb are enharmonic spellings of the same key.
var Scales = [13]Scale{
	{C, D, E, F, G, A, B},
	{G, A, B, C, D, E, FSharp},
	{D, E, FSharp, G, A, B, CSharp},
	{A, B, CSharp, D, E, FSharp, GSharp},
	{E, FSharp, GSharp, A, B, CSharp, DSharp},
	{B, CSharp, DSharp, E, FSharp, GSharp, ASharp},
	{FSharp, GSharp, ASharp, B, CSharp, DSharp, ESharp},
	{F, G, A, BFlat, C, D, E},
	{BFlat, C, D, EFlat, F, G, A},
	{EFlat, F, G, AFlat, BFlat, C, D},
	{AFlat, BFlat, C, DFlat, EFlat, F, G},
	{DFlat, EFlat, F, GFlat, AFlat, BFlat, C},
	{GFlat, AFlat, BFlat, CFlat, DFlat, EFlat, F},
}

// ScaleWeights parallels Scales; keys with fewer accidentals come up more often.
var ScaleWeights = [13]int{
	9, // C
	8, // G
	7, // D
	6, // A
	5, // E
	4, // B
	3, // F#
	8, // F
	7, // Bb
	6, // Eb
	5, // Ab
	4, // Db
	3, // Gb
}

// ScaleStep is a degree within a scale.
type ScaleStep int

const (
	First ScaleStep = iota
	Second
	Third
	Fourth
	Fifth
	Sixth
	Seventh
)

// AllScaleSteps lists the steps in order.
var AllScaleSteps = [7]ScaleStep{First, Second, Third, Fourth, Fifth, Sixth, Seventh}

// StepWeights parallels AllScaleSteps. The tonic is never asked.
var StepWeights = [7]int{0, 3, 3, 9, 9, 9, 1}

// Num is the 1-based degree shown to players.
func (s ScaleStep) Num() int { return int(s) + 1 }

// Index is the 0-based position within a Scale.
func (s ScaleStep) Index() int { return int(s) }

func (s ScaleStep) String() string { return strconv.Itoa(s.Num()) }

// ParseScaleStep accepts the 1-based degree number.
func ParseScaleStep(raw string) (ScaleStep, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > len(AllScaleSteps) {
		return First, fmt.Errorf("invalid scale step %q", raw)
	}
	return ScaleStep(n - 1), nil
}
