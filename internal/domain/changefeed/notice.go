package changefeed

import (
	"context"
	"time"
)

type Kind string

const (
	KindEventAppended Kind = "event_appended"
	KindEventRemoved  Kind = "event_removed"
	KindLineupChanged Kind = "lineup_changed"
	KindMatchUpdated  Kind = "match_updated"
	KindMatchDeleted  Kind = "match_deleted"
)

// Notice tells read-side consumers that projections of a league are stale.
type Notice struct {
	Kind       Kind      `json:"kind"`
	LeagueID   string    `json:"league_id"`
	MatchID    string    `json:"match_id,omitempty"`
	EventIDs   []string  `json:"event_ids,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers notices after a write has been committed.
type Publisher interface {
	Publish(ctx context.Context, notice Notice) error
}

// NopPublisher drops every notice.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Notice) error { return nil }
