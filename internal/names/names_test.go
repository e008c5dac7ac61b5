package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardizeTeamCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"WSH", "WAS"},
		{"WAS", "WAS"},
		{"JAC", "JAX"},
		{"LA", "LAR"},
		{"STL", "LAR"},
		{"SD", "LAC"},
		{"OAK", "LV"},
		{"kc", "KC"},
		{" sf ", "SF"},
		{"XYZ", "XYZ"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StandardizeTeamCode(tt.in), "team %q", tt.in)
	}
}

func TestStandardizeTeamCodeIdempotent(t *testing.T) {
	for _, in := range []string{"WSH", "JAC", "OAK", "KC", "XYZ"} {
		once := StandardizeTeamCode(in)
		assert.Equal(t, once, StandardizeTeamCode(once))
	}
}

func TestKnownTeam(t *testing.T) {
	assert.True(t, KnownTeam("WAS"))
	assert.True(t, KnownTeam("JAX"))
	assert.False(t, KnownTeam("WSH"))
	assert.False(t, KnownTeam("FA"))
}

func TestStandardizePosition(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"D/ST", "DST"},
		{"DEF", "DST"},
		{"dst", "DST"},
		{"PK", "K"},
		{"qb", "QB"},
		{"UNK", "UNK"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StandardizePosition(tt.in), "position %q", tt.in)
	}
}

func TestStandardizePlayerName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sample Player", "sample player"},
		{"A.J. Brown", "aj brown"},
		{"Odell Beckham Jr.", "odell beckham"},
		{"Patrick Mahomes II", "patrick mahomes"},
		{"JuJu Smith-Schuster", "juju smith schuster"},
		{"Le'Veon Bell", "leveon bell"},
		{"  Gardner   Minshew  ", "gardner minshew"},
		{"sf defense", "sf defense"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StandardizePlayerName(tt.in), "name %q", tt.in)
	}
}

func TestStandardizePlayerNameIdempotent(t *testing.T) {
	for _, in := range []string{"Odell Beckham Jr.", "JuJu Smith-Schuster", "A.J. Brown"} {
		once := StandardizePlayerName(in)
		assert.Equal(t, once, StandardizePlayerName(once))
	}
}
