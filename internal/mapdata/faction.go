package mapdata

import "fmt"

// Faction identifies one of the three player factions. The zero value
// is the invalid faction, which is also what zone queries return for
// tiles without a starter-zone affiliation.
type Faction uint8

const (
	FactionInvalid Faction = iota
	FactionRed
	FactionGreen
	FactionBlue
)

// FactionFromString parses a faction name as used in the configuration
// file. The empty string parses to FactionInvalid.
func FactionFromString(s string) (Faction, error) {
	switch s {
	case "":
		return FactionInvalid, nil
	case "red":
		return FactionRed, nil
	case "green":
		return FactionGreen, nil
	case "blue":
		return FactionBlue, nil
	}
	return FactionInvalid, fmt.Errorf("invalid faction %q", s)
}

func (f Faction) String() string {
	switch f {
	case FactionRed:
		return "red"
	case FactionGreen:
		return "green"
	case FactionBlue:
		return "blue"
	}
	return "invalid"
}
