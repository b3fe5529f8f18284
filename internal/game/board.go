package game

import "bytes"

// Board is the masked view of a secret word. Its length never changes.
type Board struct {
	word  []byte
	cells []byte
}

func NewBoard(word string) *Board {
	b := &Board{
		word:  []byte(word),
		cells: bytes.Repeat([]byte{Placeholder}, len(word)),
	}
	return b
}

func (b *Board) Len() int { return len(b.cells) }

// Bytes returns the current cells. The slice is shared; callers must not modify it.
func (b *Board) Bytes() []byte { return b.cells }

func (b *Board) String() string { return string(b.cells) }

func (b *Board) Solved() bool {
	return bytes.IndexByte(b.cells, Placeholder) < 0
}

// Apply classifies c and reveals every masked position holding it.
// A character that is already revealed is a Repeat and changes nothing.
func (b *Board) Apply(c byte) Outcome {
	if c != Placeholder && bytes.IndexByte(b.cells, c) >= 0 {
		return Repeat
	}

	hit := false
	for i := range b.word {
		if b.cells[i] == Placeholder && b.word[i] == c && c != Placeholder {
			b.cells[i] = c
			hit = true
		}
	}
	if hit {
		return Hit
	}
	return Miss
}
