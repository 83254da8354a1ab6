// Package player defines the persistent per-user game state and the
// stat-delta type applied to it after each narrated action.
package player

import (
	"slices"
	"sort"
)

// MaxEnergy is the daily energy cap. Relationship counters are unbounded;
// only the explicit recovery path clamps energy.
const MaxEnergy = 100

// OriginStory selects the prologue the player starts from.
type OriginStory string

const (
	OriginMuridPindahan OriginStory = "murid_pindahan" // transfer student in Bocchi's class
	OriginTetangga      OriginStory = "tetangga"       // neighbor of the Gotoh family
	OriginStafStarry    OriginStory = "staf_starry"    // part-timer at STARRY
)

// OriginStories returns the valid prologue choices in display order.
func OriginStories() []OriginStory {
	return []OriginStory{OriginMuridPindahan, OriginTetangga, OriginStafStarry}
}

// IsValidOrigin reports whether s is one of the fixed origin stories.
func IsValidOrigin(s string) bool {
	return slices.Contains(OriginStories(), OriginStory(s))
}

// Relationship holds the three counters tracked per band member.
type Relationship struct {
	Trust     int `json:"trust"`
	Comfort   int `json:"comfort"`
	Affection int `json:"affection"`
}

// Player is one row of the players table.
type Player struct {
	DiscordID       string                  `json:"discord_id"`
	OriginStory     OriginStory             `json:"origin_story"`
	LastPlayedDate  string                  `json:"last_played_date"`
	Energy          int                     `json:"energy"`
	CurrentWeather  string                  `json:"current_weather"`
	KnownCharacters []string                `json:"known_characters"`
	Relationships   map[string]Relationship `json:"relationships"`
}

// Knows reports whether the player has narratively met the character.
// Unknown characters are shown by physical description, never by name.
func (p *Player) Knows(name string) bool {
	return slices.Contains(p.KnownCharacters, name)
}

// statFields is the whitelist of columns a narration delta may touch.
// The LLM reply is untrusted input; anything outside this list is dropped.
var statFields = map[string]bool{
	"energy":           true,
	"bocchi_trust":     true,
	"bocchi_comfort":   true,
	"bocchi_affection": true,
	"nijika_trust":     true,
	"nijika_comfort":   true,
	"nijika_affection": true,
	"ryo_trust":        true,
	"ryo_comfort":      true,
	"ryo_affection":    true,
	"kita_trust":       true,
	"kita_comfort":     true,
	"kita_affection":   true,
}

// IsStatField reports whether name is a writable stat column.
func IsStatField(name string) bool {
	return statFields[name]
}

// StatFields returns the whitelist in sorted order.
func StatFields() []string {
	fields := make([]string, 0, len(statFields))
	for f := range statFields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// StatDelta is a set of relative stat changes, keyed by column name.
type StatDelta map[string]int

// Sanitize splits the delta into whitelisted changes and the dropped keys.
// Zero-valued entries are kept; they are harmless no-ops.
func (d StatDelta) Sanitize() (StatDelta, []string) {
	clean := make(StatDelta, len(d))
	var dropped []string
	for k, v := range d {
		if statFields[k] {
			clean[k] = v
		} else {
			dropped = append(dropped, k)
		}
	}
	sort.Strings(dropped)
	return clean, dropped
}

// IsEmpty reports whether the delta changes nothing.
func (d StatDelta) IsEmpty() bool {
	return len(d) == 0
}
