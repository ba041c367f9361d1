// Package cinema provides a client for the cinema-api catalog server.
package cinema

// Lang identifies one audio/subtitle variant of an entity.
type Lang string

// Known language tracks, in no particular order. The server only ever
// emits values from this set, but the client treats Lang as open so a
// newer server does not break older clients.
const (
	GerDub  Lang = "GerDub"
	GerSub  Lang = "GerSub"
	EngDub  Lang = "EngDub"
	EngSub  Lang = "EngSub"
	GerSubK Lang = "GerSubK"
	EngSubK Lang = "EngSubK"
)

// ParseLang reports whether s names a known language track.
func ParseLang(s string) (Lang, bool) {
	switch l := Lang(s); l {
	case GerDub, GerSub, EngDub, EngSub, GerSubK, EngSubK:
		return l, true
	}
	return "", false
}

// Serie is one catalog entry. The index endpoint returns summary-level
// records (ID, Categorie, Title, Infos); the detail endpoint fills in
// Seasons and Movies.
type Serie struct {
	ID        string      `json:"ID"`
	Categorie string      `json:"categorie"`
	Title     string      `json:"title"`
	Seasons   [][]Episode `json:"seasons"`
	Movies    []Movie     `json:"movies"`
	Infos     SerieInfos  `json:"infos"`
}

// SerieInfos is free-form descriptive metadata attached to a Serie.
type SerieInfos struct {
	Infos       string `json:"infos"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// Episode is one entry of a season. Season and Episode numbers are
// 1-based; Episode is unique within its season.
type Episode struct {
	FilePath      string `json:"filePath"`
	PrimaryName   string `json:"primaryName"`
	SecondaryName string `json:"secondaryName"`
	Season        int    `json:"season"`
	Episode       int    `json:"episode"`
	Langs         []Lang `json:"langs"`
	SubID         string `json:"subID"`
}

// Movie is a standalone film attached to a Serie, addressed by its
// 1-based position in the Movies list.
type Movie struct {
	FilePath      string `json:"filePath"`
	PrimaryName   string `json:"primaryName"`
	SecondaryName string `json:"secondaryName"`
	Langs         []Lang `json:"langs"`
	SubID         string `json:"subID"`
}

// Languages returns the tracks this episode is available in.
func (e *Episode) Languages() []Lang { return e.Langs }

// Languages returns the tracks this movie is available in.
func (m *Movie) Languages() []Lang { return m.Langs }

// AuthInfo is the profile snapshot returned by /auth/info.
type AuthInfo struct {
	UUID            string `json:"UUID"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Role            int    `json:"role"`
	Settings        string `json:"settings"`
	ActivityDetails string `json:"activityDetails"`
}

// WatchItem is one server-held watch record for an entity. ID is the
// series ID; either Movie or Season/Episode identifies the entity.
type WatchItem struct {
	ID      string  `json:"ID"`
	Season  int     `json:"season"`
	Episode int     `json:"episode"`
	Movie   int     `json:"movie"`
	Time    float64 `json:"time"`
	Watched bool    `json:"watched"`
}
