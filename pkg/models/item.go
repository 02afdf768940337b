// Package models defines persisted entities and API response records.
// Persisted entities mirror table rows; response records are the shapes
// handlers serialize. Keeping the two apart prevents schema changes from
// leaking into the HTTP surface.
package models

import "fmt"

// JLPTLevel is a Japanese Language Proficiency Test level, N5 (elementary)
// through N1 (advanced).
type JLPTLevel string

const (
	LevelN5 JLPTLevel = "N5"
	LevelN4 JLPTLevel = "N4"
	LevelN3 JLPTLevel = "N3"
	LevelN2 JLPTLevel = "N2"
	LevelN1 JLPTLevel = "N1"
)

// Levels lists all JLPT levels in study order, easiest first.
var Levels = []JLPTLevel{LevelN5, LevelN4, LevelN3, LevelN2, LevelN1}

// Validate checks that the level is one of N5..N1.
func (l JLPTLevel) Validate() error {
	switch l {
	case LevelN5, LevelN4, LevelN3, LevelN2, LevelN1:
		return nil
	}
	return fmt.Errorf("invalid JLPT level %q", string(l))
}

// Rank returns the study-order position of the level (N5=1 .. N1=5).
// Used to order new-card candidates easiest-first.
func (l JLPTLevel) Rank() int {
	switch l {
	case LevelN5:
		return 1
	case LevelN4:
		return 2
	case LevelN3:
		return 3
	case LevelN2:
		return 4
	case LevelN1:
		return 5
	}
	return 0
}

// ItemKind discriminates the two learnable item types.
type ItemKind string

const (
	KindVocab ItemKind = "vocab"
	KindKanji ItemKind = "kanji"
)

// Validate checks that the kind is vocab or kanji.
func (k ItemKind) Validate() error {
	switch k {
	case KindVocab, KindKanji:
		return nil
	}
	return fmt.Errorf("invalid item type %q", string(k))
}

// VocabItem is a learnable word. Rows are inserted once by the ingestion
// pipeline and read-only afterwards.
type VocabItem struct {
	ID           int64     `json:"id"`
	Surface      string    `json:"surface"`
	Reading      string    `json:"reading"`
	Gloss        string    `json:"gloss"`
	PartOfSpeech string    `json:"part_of_speech"`
	Level        JLPTLevel `json:"level"`
	ExampleJP    string    `json:"example_jp,omitempty"`
	ExampleEN    string    `json:"example_en,omitempty"`
}

// KanjiItem is a learnable character.
type KanjiItem struct {
	ID          int64      `json:"id"`
	Character   string     `json:"character"`
	OnReadings  []string   `json:"on_readings"`
	KunReadings []string   `json:"kun_readings"`
	Meanings    []string   `json:"meanings"`
	StrokeCount int        `json:"stroke_count"`
	Level       *JLPTLevel `json:"level,omitempty"`
	Frequency   *int       `json:"frequency,omitempty"`
	ExampleJP   string     `json:"example_jp,omitempty"`
	ExampleEN   string     `json:"example_en,omitempty"`
}

// Item is the common projection of a vocab or kanji item used where the two
// kinds flow through the same path (new-card candidates, due-card joins).
type Item struct {
	Kind    ItemKind   `json:"item_type"`
	ID      int64      `json:"item_id"`
	Surface string     `json:"surface"`
	Reading string     `json:"reading"`
	Gloss   string     `json:"gloss"`
	Level   *JLPTLevel `json:"level,omitempty"`
}
