package domain

import (
	"fmt"
	"strings"
)

// Letter is the base letter of a note.
type Letter int

const (
	LetterA Letter = iota
	LetterB
	LetterC
	LetterD
	LetterE
	LetterF
	LetterG
)

var letterNames = [...]string{"A", "B", "C", "D", "E", "F", "G"}

func (l Letter) String() string {
	if l >= 0 && int(l) < len(letterNames) {
		return letterNames[l]
	}
	return "?"
}

// Modifier alters a letter by a semitone.
type Modifier int

const (
	Natural Modifier = iota
	Sharp
	Flat
)

var modifierSymbols = [...]string{"", "#", "b"}

func (m Modifier) String() string {
	if m >= 0 && int(m) < len(modifierSymbols) {
		return modifierSymbols[m]
	}
	return "?"
}

// Note is a spelled pitch class such as C, F# or Bb.
type Note struct {
	Letter   Letter
	Modifier Modifier
}

func (n Note) String() string {
	return n.Letter.String() + n.Modifier.String()
}

// Less orders notes by letter, then by modifier.
func (n Note) Less(other Note) bool {
	if n.Letter != other.Letter {
		return n.Letter < other.Letter
	}
	return n.Modifier < other.Modifier
}

var (
	A = Note{LetterA, Natural}
	B = Note{LetterB, Natural}
	C = Note{LetterC, Natural}
	D = Note{LetterD, Natural}
	E = Note{LetterE, Natural}
	F = Note{LetterF, Natural}
	G = Note{LetterG, Natural}

	AFlat = Note{LetterA, Flat}
	BFlat = Note{LetterB, Flat}
	CFlat = Note{LetterC, Flat}
	DFlat = Note{LetterD, Flat}
	EFlat = Note{LetterE, Flat}
	FFlat = Note{LetterF, Flat}
	GFlat = Note{LetterG, Flat}

	ASharp = Note{LetterA, Sharp}
	BSharp = Note{LetterB, Sharp}
	CSharp = Note{LetterC, Sharp}
	DSharp = Note{LetterD, Sharp}
	ESharp = Note{LetterE, Sharp}
	FSharp = Note{LetterF, Sharp}
	GSharp = Note{LetterG, Sharp}
)

// AllNotes is the answer universe distractors are drawn from.
var AllNotes = [21]Note{
	A, B, C, D, E, F, G,
	AFlat, BFlat, CFlat, DFlat, EFlat, FFlat, GFlat,
	ASharp, BSharp, CSharp, DSharp, ESharp, FSharp, GSharp,
}

// ParseNote is the inverse of Note.String.
func ParseNote(raw string) (Note, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > 2 {
		return Note{}, fmt.Errorf("invalid note %q", raw)
	}
	var note Note
	switch raw[:1] {
	case "A":
		note.Letter = LetterA
	case "B":
		note.Letter = LetterB
	case "C":
		note.Letter = LetterC
	case "D":
		note.Letter = LetterD
	case "E":
		note.Letter = LetterE
	case "F":
		note.Letter = LetterF
	case "G":
		note.Letter = LetterG
	default:
		return Note{}, fmt.Errorf("invalid note letter %q", raw[:1])
	}
	if len(raw) == 2 {
		switch raw[1:] {
		case "#":
			note.Modifier = Sharp
		case "b":
			note.Modifier = Flat
		default:
			return Note{}, fmt.Errorf("invalid note modifier %q", raw[1:])
		}
	}
	return note, nil
}
