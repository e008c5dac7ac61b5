package espn

// Wire types for the kona_player_info view. Pointer fields mark values ESPN
// omits for some players; slices and maps decode to nil when absent, which
// the parser reads as "no data" rather than an error.

type projectionsResponse struct {
	Players []playerEntry `json:"players"`
}

type playerEntry struct {
	Player *playerDocument `json:"player"`
}

type playerDocument struct {
	ID                *int         `json:"id"`
	FullName          *string      `json:"fullName"`
	ProTeamID         *int         `json:"proTeamId"`
	DefaultPositionID *int         `json:"defaultPositionId"`
	Stats             []statRecord `json:"stats"`
}

// statRecord is one scoring split. ESPN mixes projections and actuals in
// the same list; statSourceId and statSplitTypeId tell them apart. Match
// fields left at their zero value by a partial record simply never match.
type statRecord struct {
	SeasonID        int                    `json:"seasonId"`
	ScoringPeriodID int                    `json:"scoringPeriodId"`
	StatSourceID    int                    `json:"statSourceId"`
	StatSplitTypeID int                    `json:"statSplitTypeId"`
	AppliedTotal    *float64               `json:"appliedTotal"`
	Stats           map[string]interface{} `json:"stats"`
}
