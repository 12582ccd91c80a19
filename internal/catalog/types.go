package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/tturner/dexterm/internal/pokeapi"
)

// DefaultPageSize covers the first generation.
const DefaultPageSize = 151

// TypeSlot is one elemental type with its 1-based ordering slot.
type TypeSlot struct {
	Slot int    `json:"slot" yaml:"slot"`
	Name string `json:"name" yaml:"name"`
}

// Entry is one catalog item as shown in the list. Entries are built once by
// the Loader and never mutated afterwards.
type Entry struct {
	ID           int        `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	ImageURL     string     `json:"image_url" yaml:"image_url"`
	ImageBackURL string     `json:"image_back_url" yaml:"image_back_url"`
	Types        []TypeSlot `json:"types" yaml:"types"`
}

// Number returns the zero-padded national number.
func (e Entry) Number() string { return Number(e.ID) }

// Color returns the card colour for the entry's first type.
func (e Entry) Color() string { return TypeColor(e.Types) }

// Ability is one ability of a Detail.
type Ability struct {
	Name   string `json:"name" yaml:"name"`
	Hidden bool   `json:"hidden" yaml:"hidden"`
	Slot   int    `json:"slot" yaml:"slot"`
}

// Stat is one base stat, 0-255.
type Stat struct {
	Name string `json:"name" yaml:"name"`
	Base int    `json:"base" yaml:"base"`
}

// Form is one form name.
type Form struct {
	Name string `json:"name" yaml:"name"`
}

// Detail is the full attribute set for one entry. It is fetched on every
// detail visit and never merged back into Entry.
type Detail struct {
	ID           int        `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	Height       int        `json:"height" yaml:"height"` // decimetres
	Weight       int        `json:"weight" yaml:"weight"` // hectograms
	ImageURL     string     `json:"image_url" yaml:"image_url"`
	ImageBackURL string     `json:"image_back_url" yaml:"image_back_url"`
	Abilities    []Ability  `json:"abilities" yaml:"abilities"`
	Stats        []Stat     `json:"stats" yaml:"stats"`
	Forms        []Form     `json:"forms" yaml:"forms"`
	Types        []TypeSlot `json:"types" yaml:"types"`
}

// Color returns the header colour for the detail's first type.
func (d Detail) Color() string { return TypeColor(d.Types) }

// Transfer is the only state handed from the list screen to the detail
// screen. Everything else is re-fetched by id.
type Transfer struct {
	ID       int        `json:"id"`
	Name     string     `json:"name"`
	ImageURL string     `json:"image"`
	Types    []TypeSlot `json:"types"`
}

// NewTransfer builds the transfer record for a selected entry.
func NewTransfer(e Entry) Transfer {
	types := make([]TypeSlot, len(e.Types))
	copy(types, e.Types)
	return Transfer{ID: e.ID, Name: e.Name, ImageURL: e.ImageURL, Types: types}
}

// Color returns the colour the detail screen uses before its fetch lands.
func (t Transfer) Color() string { return TypeColor(t.Types) }

// Encode serializes the transfer record as JSON.
func (t Transfer) Encode() (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("encode transfer: %w", err)
	}
	return string(data), nil
}

// DecodeTransfer parses a record produced by Encode.
func DecodeTransfer(s string) (Transfer, error) {
	var t Transfer
	if err := json.Unmarshal([]byte(s), &t); err != nil {
		return Transfer{}, fmt.Errorf("decode transfer: %w", err)
	}
	if t.ID <= 0 {
		return Transfer{}, fmt.Errorf("decode transfer: id must be positive, got %d", t.ID)
	}
	if t.Name == "" {
		return Transfer{}, fmt.Errorf("decode transfer: name is required")
	}
	return t, nil
}

func typeSlotsFrom(in []pokeapi.TypeSlot) []TypeSlot {
	out := make([]TypeSlot, 0, len(in))
	for _, t := range in {
		out = append(out, TypeSlot{Slot: t.Slot, Name: t.Type.Name})
	}
	return out
}

// entryFrom merges a listing reference with its detail payload. The listing
// name wins over the payload name.
func entryFrom(ref pokeapi.NamedResource, p pokeapi.Pokemon) Entry {
	return Entry{
		ID:           p.ID,
		Name:         ref.Name,
		ImageURL:     p.Sprites.Other.OfficialArtwork.FrontDefault,
		ImageBackURL: p.Sprites.BackDefault,
		Types:        typeSlotsFrom(p.Types),
	}
}

// DetailFrom converts an API payload into a Detail.
func DetailFrom(p pokeapi.Pokemon) Detail {
	d := Detail{
		ID:           p.ID,
		Name:         p.Name,
		Height:       p.Height,
		Weight:       p.Weight,
		ImageURL:     p.Sprites.Other.OfficialArtwork.FrontDefault,
		ImageBackURL: p.Sprites.BackDefault,
		Types:        typeSlotsFrom(p.Types),
		Abilities:    make([]Ability, 0, len(p.Abilities)),
		Stats:        make([]Stat, 0, len(p.Stats)),
		Forms:        make([]Form, 0, len(p.Forms)),
	}
	for _, a := range p.Abilities {
		d.Abilities = append(d.Abilities, Ability{Name: a.Ability.Name, Hidden: a.IsHidden, Slot: a.Slot})
	}
	for _, s := range p.Stats {
		d.Stats = append(d.Stats, Stat{Name: s.Stat.Name, Base: s.BaseStat})
	}
	for _, f := range p.Forms {
		d.Forms = append(d.Forms, Form{Name: f.Name})
	}
	return d
}
