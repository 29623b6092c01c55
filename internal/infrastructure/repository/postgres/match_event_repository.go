package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-engine/internal/domain/matchevent"
	qb "github.com/riskibarqy/league-engine/internal/platform/querybuilder"
)

type MatchEventRepository struct {
	db *sqlx.DB
}

func NewMatchEventRepository(db *sqlx.DB) *MatchEventRepository {
	return &MatchEventRepository{db: db}
}

func (r *MatchEventRepository) Append(ctx context.Context, item matchevent.Event) error {
	query, args, err := qb.InsertModel("match_events", matchEventInsertModel{
		PublicID:  item.ID,
		MatchID:   item.MatchID,
		TeamID:    item.TeamID,
		PlayerID:  item.PlayerID,
		EventType: string(item.Type),
		Minute:    intPtrToNullInt64(item.Minute),
		CreatedAt: item.CreatedAt,
	})
	if err != nil {
		return crerr.Wrap(err, "build insert match event query")
	}
	if _, err := conn(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "insert match event id=%s", item.ID)
	}
	return nil
}

func (r *MatchEventRepository) GetByID(ctx context.Context, eventID string) (matchevent.Event, bool, error) {
	query, args, err := qb.Select("*").From("match_events").
		Where(qb.Eq("public_id", eventID)).
		ToSQL()
	if err != nil {
		return matchevent.Event{}, false, crerr.Wrap(err, "build get match event query")
	}

	var row matchEventTableModel
	if err := conn(ctx, r.db).GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return matchevent.Event{}, false, nil
		}
		return matchevent.Event{}, false, crerr.Wrapf(err, "get match event id=%s", eventID)
	}
	return matchEventFromRow(row), true, nil
}

func (r *MatchEventRepository) ListByMatch(ctx context.Context, matchID string) ([]matchevent.Event, error) {
	query, args, err := qb.Select("*").From("match_events").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list match events query")
	}
	return r.selectEvents(ctx, query, args)
}

func (r *MatchEventRepository) ListByLeague(ctx context.Context, leagueID string) ([]matchevent.Event, error) {
	query, args, err := qb.Select("e.*").From("match_events e JOIN matches m ON m.public_id = e.match_public_id").
		Where(qb.Eq("m.league_public_id", leagueID)).
		OrderBy("e.created_at", "e.id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list league match events query")
	}
	return r.selectEvents(ctx, query, args)
}

// DeleteMany deletes in one transaction and rolls back unless every id was removed.
func (r *MatchEventRepository) DeleteMany(ctx context.Context, eventIDs []string) error {
	eventIDs = uniqueIDs(eventIDs)
	if len(eventIDs) == 0 {
		return nil
	}
	query, args, err := qb.DeleteFrom("match_events").
		Where(qb.In("public_id", inArgs(eventIDs))).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build delete match events query")
	}

	return withTx(ctx, r.db, "delete match events", func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return crerr.Wrap(err, "delete match events")
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return crerr.Wrap(err, "rows affected delete match events")
		}
		if affected != int64(len(eventIDs)) {
			return crerr.Wrapf(matchevent.ErrEventsMissing, "deleted %d of %d", affected, len(eventIDs))
		}
		return nil
	})
}

func (r *MatchEventRepository) selectEvents(ctx context.Context, query string, args []any) ([]matchevent.Event, error) {
	var rows []matchEventTableModel
	if err := conn(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "select match events")
	}

	out := make([]matchevent.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchEventFromRow(row))
	}
	return out, nil
}

func matchEventFromRow(row matchEventTableModel) matchevent.Event {
	return matchevent.Event{
		ID:        row.PublicID,
		MatchID:   row.MatchID,
		PlayerID:  row.PlayerID,
		TeamID:    row.TeamID,
		Type:      matchevent.Type(row.EventType),
		Minute:    nullInt64ToIntPtr(row.Minute),
		CreatedAt: row.CreatedAt,
	}
}
