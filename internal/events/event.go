// Package events provides the pub/sub channel between the coordinator
// and its rendering collaborator: selection and locator changes flow
// out, playback progress reports flow back in.
package events

import (
	"time"

	"github.com/jodu555/cinewatch/pkg/cinema"
)

// Event type names.
const (
	EventSelectionChanged = "selection.changed"
	EventLocatorChanged   = "locator.changed"
	EventSessionChanged   = "session.changed"
	EventCatalogRefreshed = "catalog.refreshed"
	EventPlaybackProgress = "playback.progress"
)

// Event is the base interface all events implement.
type Event interface {
	EventType() string
	SeriesID() string
	OccurredAt() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	Type      string    `json:"type"`
	Series    string    `json:"series_id"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) SeriesID() string      { return e.Series }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent creates a BaseEvent with the current timestamp.
func NewBaseEvent(eventType, seriesID string) BaseEvent {
	return BaseEvent{
		Type:      eventType,
		Series:    seriesID,
		Timestamp: time.Now(),
	}
}

// SelectionChanged is published after every coordinator transition, in
// the sentinel convention (MovieIndex -1 when episode-addressed).
type SelectionChanged struct {
	BaseEvent
	MovieIndex int         `json:"movie_index"`
	Season     int         `json:"season"`
	Episode    int         `json:"episode"`
	Language   cinema.Lang `json:"language"`
}

// LocatorChanged is published when the derived playback address actually
// differs from the previous one.
type LocatorChanged struct {
	BaseEvent
	Address string `json:"address"`
	Title   string `json:"title"`
}

// SessionChanged is published on login, restore and logout.
type SessionChanged struct {
	BaseEvent
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username"`
}

// CatalogRefreshed is published after a successful list refresh or
// hydration. Series is "" for a full list refresh.
type CatalogRefreshed struct {
	BaseEvent
	Count int `json:"count"`
}

// PlaybackProgress is reported by the rendering surface. The coordinator
// tolerates never receiving one.
type PlaybackProgress struct {
	BaseEvent
	MovieIndex int         `json:"movie_index"`
	Season     int         `json:"season"`
	Episode    int         `json:"episode"`
	Language   cinema.Lang `json:"language"`
	Time       float64     `json:"time"`
}
