package domain

import "strings"

// Mods is the applied-mods bitset for a score, matching the osu! API
// enabled_mods encoding.
type Mods int64

const (
	ModNoFail      Mods = 1 << 0
	ModEasy        Mods = 1 << 1
	ModTouchDevice Mods = 1 << 2
	ModHidden      Mods = 1 << 3
	ModHardRock    Mods = 1 << 4
	ModSuddenDeath Mods = 1 << 5
	ModDoubleTime  Mods = 1 << 6
	ModRelax       Mods = 1 << 7
	ModHalfTime    Mods = 1 << 8
	ModNightcore   Mods = 1 << 9 // always set together with DoubleTime
	ModFlashlight  Mods = 1 << 10
	ModAutoplay    Mods = 1 << 11
	ModSpunOut     Mods = 1 << 12
	ModAutopilot   Mods = 1 << 13
	ModPerfect     Mods = 1 << 14 // always set together with SuddenDeath
	ModScoreV2     Mods = 1 << 29
)

// modNames maps individual bits to their two-letter acronyms, in bit order.
var modNames = []struct {
	bit  Mods
	name string
}{
	{ModNoFail, "NF"},
	{ModEasy, "EZ"},
	{ModTouchDevice, "TD"},
	{ModHidden, "HD"},
	{ModHardRock, "HR"},
	{ModSuddenDeath, "SD"},
	{ModDoubleTime, "DT"},
	{ModRelax, "RX"},
	{ModHalfTime, "HT"},
	{ModNightcore, "NC"},
	{ModFlashlight, "FL"},
	{ModAutoplay, "AT"},
	{ModSpunOut, "SO"},
	{ModAutopilot, "AP"},
	{ModPerfect, "PF"},
	{ModScoreV2, "V2"},
}

// Has reports whether every bit of m2 is set.
func (m Mods) Has(m2 Mods) bool {
	return m&m2 == m2
}

// String returns the mods as concatenated acronyms, or "NM" for no mods.
func (m Mods) String() string {
	if m == 0 {
		return "NM"
	}
	var b strings.Builder
	for _, entry := range modNames {
		if m.Has(entry.bit) {
			b.WriteString(entry.name)
		}
	}
	return b.String()
}
