package espn

// PositionUnknown marks position ids outside the fantasy-relevant set.
const PositionUnknown = "UNK"

// positionNames maps ESPN defaultPositionId values to fantasy positions.
// Ids outside this table are non-fantasy roster slots (long snappers,
// offensive linemen, and the like).
var positionNames = map[int]string{
	1:  "QB",
	2:  "RB",
	3:  "WR",
	4:  "TE",
	5:  "K",
	16: "DST",
}

// PositionName maps an ESPN position id to its fantasy label. ok is false
// for ids outside the fantasy-relevant set.
func PositionName(id int) (string, bool) {
	name, ok := positionNames[id]
	return name, ok
}

// teamIDs maps abbreviations to ESPN franchise ids. Alias spellings map to
// the same id as their canonical form; FA is the free-agent pseudo-team.
var teamIDs = map[string]int{
	"ARI": 22,
	"ATL": 1,
	"BAL": 33,
	"BUF": 2,
	"CAR": 29,
	"CHI": 3,
	"CIN": 4,
	"CLE": 5,
	"DAL": 6,
	"DEN": 7,
	"DET": 8,
	"GB":  9,
	"HOU": 34,
	"IND": 11,
	"JAC": 30,
	"JAX": 30,
	"KC":  12,
	"LAC": 24,
	"LA":  14,
	"LAR": 14,
	"MIA": 15,
	"MIN": 16,
	"NE":  17,
	"NO":  18,
	"NYG": 19,
	"NYJ": 20,
	"OAK": 13,
	"PHI": 21,
	"PIT": 23,
	"SEA": 26,
	"SF":  25,
	"TB":  27,
	"TEN": 10,
	"WAS": 28,
	"WSH": 28,
	"FA":  0,
}

// teamCodes is kept as its own literal rather than inverted from teamIDs so
// each id resolves to exactly one canonical abbreviation (28 is WAS, never
// WSH; 30 is JAX, never JAC; 14 is LAR, never LA).
var teamCodes = map[int]string{
	0:  "FA",
	1:  "ATL",
	2:  "BUF",
	3:  "CHI",
	4:  "CIN",
	5:  "CLE",
	6:  "DAL",
	7:  "DEN",
	8:  "DET",
	9:  "GB",
	10: "TEN",
	11: "IND",
	12: "KC",
	13: "OAK",
	14: "LAR",
	15: "MIA",
	16: "MIN",
	17: "NE",
	18: "NO",
	19: "NYG",
	20: "NYJ",
	21: "PHI",
	22: "ARI",
	23: "PIT",
	24: "LAC",
	25: "SF",
	26: "SEA",
	27: "TB",
	28: "WAS",
	29: "CAR",
	33: "BAL",
	34: "HOU",
}

// TeamID returns ESPN's numeric franchise id for an abbreviation.
func TeamID(code string) (int, bool) {
	id, ok := teamIDs[code]
	return id, ok
}

// TeamCode returns the canonical abbreviation for an ESPN franchise id.
func TeamCode(id int) (string, bool) {
	code, ok := teamCodes[id]
	return code, ok
}

// statNames maps ESPN's numeric stat codes (JSON object keys, so strings on
// the wire) to semantic column names. Codes absent from this table are
// dropped during parsing.
var statNames = map[string]string{
	"0":   "pass_att",
	"1":   "pass_cmp",
	"3":   "pass_yds",
	"4":   "pass_td",
	"19":  "pass_tpc",
	"20":  "pass_int",
	"23":  "rush_att",
	"24":  "rush_yds",
	"25":  "rush_td",
	"26":  "rush_tpc",
	"53":  "rec_rec",
	"42":  "rec_yds",
	"43":  "rec_td",
	"44":  "rec_tpc",
	"58":  "rec_tar",
	"72":  "fum_lost",
	"74":  "madeFieldGoalsFrom50Plus",
	"77":  "madeFieldGoalsFrom40To49",
	"80":  "madeFieldGoalsFromUnder40",
	"85":  "missedFieldGoals",
	"86":  "madeExtraPoints",
	"88":  "missedExtraPoints",
	"89":  "defensive0PointsAllowed",
	"90":  "defensive1To6PointsAllowed",
	"91":  "defensive7To13PointsAllowed",
	"92":  "defensive14To17PointsAllowed",
	"93":  "defensiveBlockedKickForTouchdowns",
	"95":  "defensiveInterceptions",
	"96":  "defensiveFumbles",
	"97":  "defensiveBlockedKicks",
	"98":  "defensiveSafeties",
	"99":  "defensiveSacks",
	"101": "kickoffReturnTouchdown",
	"102": "puntReturnTouchdown",
	"103": "fumbleReturnTouchdown",
	"104": "interceptionReturnTouchdown",
	"123": "defensive28To34PointsAllowed",
	"124": "defensive35To45PointsAllowed",
	"129": "defensive100To199YardsAllowed",
	"130": "defensive200To299YardsAllowed",
	"132": "defensive350To399YardsAllowed",
	"133": "defensive400To449YardsAllowed",
	"134": "defensive450To499YardsAllowed",
	"135": "defensive500To549YardsAllowed",
	"136": "defensiveOver550YardsAllowed",
}
