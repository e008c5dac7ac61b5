package pipeline

import (
	"sort"

	"github.com/gridironlab/nflprojections/internal/frame"
)

// Merge joins standardized frames from multiple sources into one comparison
// table keyed on canonical player name. The result carries plyr, pos, team,
// and one proj_<source> column per input; identity cells come from the
// first source (alphabetically) that has them. Rows are sorted by player
// name so output is stable.
func Merge(results map[string]*frame.Frame) *frame.Frame {
	sources := make([]string, 0, len(results))
	for name := range results {
		sources = append(sources, name)
	}
	sort.Strings(sources)

	merged := make(map[string]frame.Row)
	var players []string
	for _, src := range sources {
		projCol := ColProjection + "_" + src
		for _, r := range results[src].Rows() {
			name, _ := r[ColPlayer].(string)
			if name == "" {
				continue
			}
			m, ok := merged[name]
			if !ok {
				m = frame.Row{ColPlayer: name}
				merged[name] = m
				players = append(players, name)
			}
			for _, col := range []string{ColPosition, ColTeam} {
				if _, have := m[col]; have {
					continue
				}
				if v, present := r[col]; present && v != nil {
					m[col] = v
				}
			}
			if v, present := r[ColProjection]; present {
				m[projCol] = v
			}
		}
	}
	sort.Strings(players)

	cols := []string{ColPlayer, ColPosition, ColTeam}
	for _, src := range sources {
		cols = append(cols, ColProjection+"_"+src)
	}
	out := frame.New(cols...)
	for _, name := range players {
		out.Append(merged[name])
	}
	return out
}
