package model

// GameSummary is the row-level view of a game as listed by the catalog API.
// Optional fields are nil when the dataset has no value for them.
type GameSummary struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	ReleaseDate     *string  `json:"release_date"`
	EstimatedOwners *string  `json:"estimated_owners"`
	RequiredAge     *int     `json:"required_age"`
	Price           *float64 `json:"price"`
}

// GameDetail extends GameSummary with the game's relationships
type GameDetail struct {
	GameSummary
	Publishers []string `json:"publishers"`
	Genres     []string `json:"genres"`
	Tags       []string `json:"tags"`
}

// ProvisionalDetail wraps a known summary as a detail with empty relationship lists.
// It stands in for a game whose full detail has not arrived yet.
func ProvisionalDetail(s GameSummary) GameDetail {
	return GameDetail{
		GameSummary: s,
		Publishers:  []string{},
		Genres:      []string{},
		Tags:        []string{},
	}
}

// Summary returns the summary part of the detail
func (d GameDetail) Summary() GameSummary {
	return d.GameSummary
}

// Normalize replaces nil relationship lists with empty ones
func (d *GameDetail) Normalize() {
	if d.Publishers == nil {
		d.Publishers = []string{}
	}
	if d.Genres == nil {
		d.Genres = []string{}
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
}
