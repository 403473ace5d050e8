package practice

import (
	"fmt"

	"github.com/example/linguist/pkg/models"
)

// Mode decides which field of an item is asked and which is answered
type Mode string

const (
	// ModeMeaning shows the word and asks for the meaning
	ModeMeaning Mode = "meaning"
	// ModeReverse shows the meaning and asks for the word
	ModeReverse Mode = "reverse"
	// ModeImage shows the picture and asks for the word
	ModeImage Mode = "image"
	// ModeRandom picks one of the modes above for every item
	ModeRandom Mode = "random"
)

// concreteModes are the modes ModeRandom chooses from
var concreteModes = []Mode{ModeMeaning, ModeReverse, ModeImage}

// ParseMode converts user input into a Mode
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeMeaning, ModeReverse, ModeImage, ModeRandom:
		return m, nil
	}
	return "", fmt.Errorf("unknown practice mode %q", s)
}

// Card is the question shown for one item
type Card struct {
	Item     models.Vocab
	Mode     Mode   // never ModeRandom
	Prompt   string // text prompt, empty when ImageURL carries the prompt
	ImageURL string
	Answer   string
	Degraded bool // image mode without an image fell back to a word prompt
}

// NewCard builds the card of item for a concrete mode
func NewCard(item models.Vocab, mode Mode) Card {
	c := Card{Item: item, Mode: mode}
	switch mode {
	case ModeReverse:
		c.Prompt, c.Answer = item.Meaning, item.Word
	case ModeImage:
		if item.HasImage() {
			c.ImageURL, c.Answer = *item.ImageURL, item.Word
		} else {
			c.Prompt, c.Answer = item.Word, item.Meaning
			c.Degraded = true
		}
	default:
		c.Prompt, c.Answer = item.Word, item.Meaning
	}
	return c
}
