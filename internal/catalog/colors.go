package catalog

import "sort"

// DefaultColor is used for an empty type list or an unknown type.
const DefaultColor = "#A8A77A"

// typeColors is the one mapping shared by list cards and detail headers.
var typeColors = map[string]string{
	"normal":   "#A8A77A",
	"fire":     "#EE8130",
	"water":    "#6390F0",
	"electric": "#F7D02C",
	"grass":    "#7AC74C",
	"ice":      "#96D9D6",
	"fighting": "#C22E28",
	"poison":   "#A33EA1",
	"ground":   "#E2BF65",
	"flying":   "#A98FF3",
	"psychic":  "#F95587",
	"bug":      "#A6B91A",
	"rock":     "#B6A136",
	"ghost":    "#735797",
	"dragon":   "#6F35FC",
	"dark":     "#705746",
	"steel":    "#B7B7CE",
	"fairy":    "#D685AD",
}

// ColorFor returns the colour of a single type name.
func ColorFor(typeName string) string {
	if c, ok := typeColors[typeName]; ok {
		return c
	}
	return DefaultColor
}

// TypeColor returns the colour of the first slot, which the API returns
// already sorted.
func TypeColor(types []TypeSlot) string {
	if len(types) == 0 {
		return DefaultColor
	}
	return ColorFor(types[0].Name)
}

// TypeNames lists the known type names alphabetically.
func TypeNames() []string {
	names := make([]string, 0, len(typeColors))
	for name := range typeColors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
