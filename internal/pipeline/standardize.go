package pipeline

import (
	"strings"

	"github.com/gridironlab/nflprojections/internal/frame"
	"github.com/gridironlab/nflprojections/internal/names"
)

// The standardize passes below mutate cells in place and skip anything that
// is not a string, so null and absent cells survive untouched. Sources call
// them in a fixed order: teams, then positions, then players. The player
// pass reads the team column, so it must run after the team pass.

// StandardizeTeams canonicalizes the team codes in col. A provider-specific
// prealias map (already-uppercased keys) is folded in before the shared
// standardizer, for spellings only that provider uses.
func StandardizeTeams(f *frame.Frame, col string, prealias map[string]string) {
	f.Apply(col, func(v interface{}) interface{} {
		s, ok := v.(string)
		if !ok {
			return v
		}
		if len(prealias) > 0 {
			if alias, found := prealias[strings.ToUpper(strings.TrimSpace(s))]; found {
				s = alias
			}
		}
		return names.StandardizeTeamCode(s)
	})
}

// StandardizePositions canonicalizes the position labels in col.
func StandardizePositions(f *frame.Frame, col string) {
	f.Apply(col, func(v interface{}) interface{} {
		s, ok := v.(string)
		if !ok {
			return v
		}
		return names.StandardizePosition(s)
	})
}

// StandardizePlayers canonicalizes the player-name column. Defense rows get
// a synthesized name built from the standardized team code, so this pass
// must run after StandardizeTeams.
func StandardizePlayers(f *frame.Frame) {
	for _, r := range f.Rows() {
		pos, _ := r[ColPosition].(string)
		if pos == names.PositionDST {
			team, _ := r[ColTeam].(string)
			r[ColPlayer] = strings.ToLower(team) + " defense"
			continue
		}
		if v, ok := r[ColPlayer]; ok {
			if s, isStr := v.(string); isStr {
				r[ColPlayer] = names.StandardizePlayerName(s)
			}
		}
	}
}
