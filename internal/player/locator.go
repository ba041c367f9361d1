package player

import (
	"fmt"
	"net/url"

	"github.com/jodu555/cinewatch/pkg/cinema"
)

// locatorArtist is the media-metadata artist attached to every locator.
const locatorArtist = "CineFinn"

// Locator is the opaque playback-source descriptor handed to the
// rendering surface. The surface re-derives it on every selection change
// and compares addresses to decide whether the media source changed, so
// identical inputs must always yield identical addresses.
type Locator struct {
	Address string `json:"address"`
	Title   string `json:"title"`
	Artwork string `json:"artwork"`
	Artist  string `json:"artist"`
}

// BuildLocator constructs the playback descriptor for a selection. Pure:
// no network, no state, deterministic parameter order (auth-token,
// series, then movie or season+episode, then language).
func BuildLocator(baseURL string, serie *cinema.Serie, sel Selection, authToken string) Locator {
	address := fmt.Sprintf("%s/video?auth-token=%s&series=%s",
		baseURL, url.QueryEscape(authToken), url.QueryEscape(serie.ID))

	var title string
	if sel.MovieAddressed() {
		address += fmt.Sprintf("&movie=%d", sel.MovieIndex)
		title = fmt.Sprintf("%s - Movie %d", serie.Title, sel.MovieIndex)
	} else {
		address += fmt.Sprintf("&season=%d&episode=%d", sel.Season, sel.Episode)
		title = fmt.Sprintf("%s - Season %d, Episode %d", serie.Title, sel.Season, sel.Episode)
	}
	address += "&language=" + url.QueryEscape(string(sel.Language))

	artwork := fmt.Sprintf("%s/images/%s/cover.jpg?auth-token=%s",
		baseURL, url.PathEscape(serie.ID), url.QueryEscape(authToken))

	return Locator{
		Address: address,
		Title:   title,
		Artwork: artwork,
		Artist:  locatorArtist,
	}
}
