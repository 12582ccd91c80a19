package pokeapi

// NamedResource is the {name, url} pair the API uses for every reference.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ListResponse is one page of the /pokemon/ listing.
type ListResponse struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []NamedResource `json:"results"`
}

// Pokemon is the subset of the /pokemon/{id} payload dexterm reads.
type Pokemon struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Height    int             `json:"height"`
	Weight    int             `json:"weight"`
	Sprites   Sprites         `json:"sprites"`
	Types     []TypeSlot      `json:"types"`
	Abilities []AbilitySlot   `json:"abilities"`
	Stats     []StatValue     `json:"stats"`
	Forms     []NamedResource `json:"forms"`
}

// Sprites holds image URLs. Any of them may be null upstream.
type Sprites struct {
	FrontDefault string       `json:"front_default"`
	BackDefault  string       `json:"back_default"`
	Other        OtherSprites `json:"other"`
}

// OtherSprites carries the alternate artwork sets.
type OtherSprites struct {
	OfficialArtwork struct {
		FrontDefault string `json:"front_default"`
	} `json:"official-artwork"`
}

// TypeSlot is one entry of the types array.
type TypeSlot struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// AbilitySlot is one entry of the abilities array.
type AbilitySlot struct {
	Ability  NamedResource `json:"ability"`
	IsHidden bool          `json:"is_hidden"`
	Slot     int           `json:"slot"`
}

// StatValue is one entry of the stats array.
type StatValue struct {
	BaseStat int           `json:"base_stat"`
	Effort   int           `json:"effort"`
	Stat     NamedResource `json:"stat"`
}
