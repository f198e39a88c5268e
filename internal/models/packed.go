package models

import (
	"strings"

	"github.com/julianstephens/daylog/internal/constants"
)

// Song is the structured form of a log's packed "<artist> - <title>" song field.
type Song struct {
	Artist string
	Title  string
}

// ParseSong splits a packed song on the first separator. Text without a
// separator is treated as a bare title.
func ParseSong(packed string) Song {
	artist, title, ok := strings.Cut(packed, constants.PackedTextSeparator)
	if !ok {
		return Song{Title: strings.TrimSpace(packed)}
	}
	return Song{Artist: strings.TrimSpace(artist), Title: strings.TrimSpace(title)}
}

func (s Song) String() string {
	if s.Artist == "" {
		return s.Title
	}
	if s.Title == "" {
		return s.Artist
	}
	return s.Artist + constants.PackedTextSeparator + s.Title
}

// Word is the structured form of the packed "<word> - <definition>" field.
type Word struct {
	Word       string
	Definition string
}

// ParseWord splits a packed word of the day on the first separator.
func ParseWord(packed string) Word {
	word, def, ok := strings.Cut(packed, constants.PackedTextSeparator)
	if !ok {
		return Word{Word: strings.TrimSpace(packed)}
	}
	return Word{Word: strings.TrimSpace(word), Definition: strings.TrimSpace(def)}
}

func (w Word) String() string {
	if w.Definition == "" {
		return w.Word
	}
	return w.Word + constants.PackedTextSeparator + w.Definition
}
