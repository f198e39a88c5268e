package models

import "testing"

func TestParseSong(t *testing.T) {
	tests := []struct {
		packed string
		want   Song
	}{
		{packed: "Radiohead - Reckoner", want: Song{Artist: "Radiohead", Title: "Reckoner"}},
		{packed: "Sigur Rós - Hoppípolla - Live", want: Song{Artist: "Sigur Rós", Title: "Hoppípolla - Live"}},
		{packed: "Untitled", want: Song{Title: "Untitled"}},
	}

	for _, tt := range tests {
		t.Run(tt.packed, func(t *testing.T) {
			got := ParseSong(tt.packed)
			if got != tt.want {
				t.Errorf("ParseSong() = %+v, want %+v", got, tt.want)
			}
			if got.String() != tt.packed {
				t.Errorf("String() = %q, want %q", got.String(), tt.packed)
			}
		})
	}
}

func TestParseWord(t *testing.T) {
	w := ParseWord("sonder - the realization that each passerby has a life")
	if w.Word != "sonder" {
		t.Errorf("Word = %q", w.Word)
	}
	if w.Definition != "the realization that each passerby has a life" {
		t.Errorf("Definition = %q", w.Definition)
	}
	if ParseWord("lonely").String() != "lonely" {
		t.Error("bare word did not round-trip")
	}
}
