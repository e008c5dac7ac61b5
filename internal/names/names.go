// Package names owns the canonical vocabulary for team codes, positions,
// and player names. Every projection source funnels its cell values through
// these standardizers so rows from different providers can be joined on
// equal keys.
//
// All functions are pure and idempotent: feeding a standardized value back
// in returns it unchanged. Unknown values pass through rather than erroring,
// since an unrecognized code is data to surface, not a reason to abort.
package names

import "strings"

// PositionDST is the canonical code for team defense / special teams.
const PositionDST = "DST"

// ---- teams ----

// teamAliases folds provider spellings and relocated-franchise codes into
// the canonical 32-team vocabulary.
var teamAliases = map[string]string{
	"WSH": "WAS",
	"JAC": "JAX",
	"LA":  "LAR",
	"STL": "LAR",
	"SD":  "LAC",
	"OAK": "LV",
}

var canonicalTeams = map[string]bool{
	"ARI": true, "ATL": true, "BAL": true, "BUF": true,
	"CAR": true, "CHI": true, "CIN": true, "CLE": true,
	"DAL": true, "DEN": true, "DET": true, "GB": true,
	"HOU": true, "IND": true, "JAX": true, "KC": true,
	"LAC": true, "LAR": true, "LV": true, "MIA": true,
	"MIN": true, "NE": true, "NO": true, "NYG": true,
	"NYJ": true, "PHI": true, "PIT": true, "SEA": true,
	"SF": true, "TB": true, "TEN": true, "WAS": true,
}

// StandardizeTeamCode maps a provider team abbreviation to its canonical
// form. Input is trimmed and uppercased, aliases are folded, and anything
// still unrecognized passes through uppercased.
func StandardizeTeamCode(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	if alias, ok := teamAliases[c]; ok {
		return alias
	}
	return c
}

// KnownTeam reports whether code is one of the 32 canonical abbreviations.
func KnownTeam(code string) bool {
	return canonicalTeams[code]
}

// ---- positions ----

var positionAliases = map[string]string{
	"D/ST": PositionDST,
	"DEF":  PositionDST,
	"D":    PositionDST,
	"PK":   "K",
}

// StandardizePosition maps a provider position label to its canonical form.
// Unrecognized labels pass through uppercased.
func StandardizePosition(pos string) string {
	p := strings.ToUpper(strings.TrimSpace(pos))
	if alias, ok := positionAliases[p]; ok {
		return alias
	}
	return p
}

// ---- player names ----

var namePunct = strings.NewReplacer(".", "", "'", "", ",", "", "-", " ")

var nameSuffixes = map[string]bool{
	"jr": true, "sr": true,
	"ii": true, "iii": true, "iv": true, "v": true,
}

// StandardizePlayerName normalizes a player display name for joining:
// lowercase, punctuation stripped, hyphens opened to spaces, generational
// suffixes dropped, whitespace collapsed.
func StandardizePlayerName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = namePunct.Replace(n)
	parts := strings.Fields(n)
	for len(parts) > 1 && nameSuffixes[parts[len(parts)-1]] {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, " ")
}
