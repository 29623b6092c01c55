package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-engine/internal/domain/lineup"
	qb "github.com/riskibarqy/league-engine/internal/platform/querybuilder"
)

const lineupJerseyIndex = "ux_match_lineups_jersey"

type LineupRepository struct {
	db *sqlx.DB
}

func NewLineupRepository(db *sqlx.DB) *LineupRepository {
	return &LineupRepository{db: db}
}

func (r *LineupRepository) Get(ctx context.Context, key lineup.Key) (lineup.Entry, bool, error) {
	query, args, err := qb.Select("*").From("match_lineups").
		Where(keyConditions(key)...).
		ToSQL()
	if err != nil {
		return lineup.Entry{}, false, crerr.Wrap(err, "build get lineup entry query")
	}

	var row lineupTableModel
	if err := conn(ctx, r.db).GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return lineup.Entry{}, false, nil
		}
		return lineup.Entry{}, false, crerr.Wrapf(err, "get lineup entry match=%s player=%s", key.MatchID, key.PlayerID)
	}
	return lineupFromRow(row), true, nil
}

func (r *LineupRepository) ListByMatch(ctx context.Context, matchID string) ([]lineup.Entry, error) {
	return r.list(ctx, qb.Eq("match_public_id", matchID))
}

func (r *LineupRepository) ListByMatches(ctx context.Context, matchIDs []string) ([]lineup.Entry, error) {
	if len(matchIDs) == 0 {
		return []lineup.Entry{}, nil
	}
	return r.list(ctx, qb.In("match_public_id", inArgs(matchIDs)))
}

func (r *LineupRepository) Add(ctx context.Context, entry lineup.Entry) error {
	query, args, err := qb.InsertModel("match_lineups", lineupInsertModel{
		MatchID:   entry.MatchID,
		TeamID:    entry.TeamID,
		PlayerID:  entry.PlayerID,
		CreatedAt: entry.CreatedAt,
	}, qb.OnConflictDoNothing("match_public_id", "team_public_id", "player_public_id"))
	if err != nil {
		return crerr.Wrap(err, "build insert lineup entry query")
	}
	if _, err := conn(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "insert lineup entry match=%s player=%s", entry.MatchID, entry.PlayerID)
	}
	return nil
}

func (r *LineupRepository) SetJersey(ctx context.Context, key lineup.Key, number *int) error {
	query, args, err := qb.Update("match_lineups").
		Set("jersey_number", intPtrToNullInt64(number)).
		Where(keyConditions(key)...).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build set jersey query")
	}

	result, err := conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err, lineupJerseyIndex) {
			return lineup.ErrJerseyTaken
		}
		return crerr.Wrapf(err, "set jersey match=%s player=%s", key.MatchID, key.PlayerID)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return crerr.Wrap(err, "rows affected set jersey")
	}
	if affected == 0 {
		return lineup.ErrEntryNotFound
	}
	return nil
}

func (r *LineupRepository) list(ctx context.Context, condition qb.Condition) ([]lineup.Entry, error) {
	query, args, err := qb.Select("*").From("match_lineups").
		Where(condition).
		OrderBy("match_public_id", "team_public_id", "created_at", "player_public_id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list lineup entries query")
	}

	var rows []lineupTableModel
	if err := conn(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "list lineup entries")
	}

	out := make([]lineup.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, lineupFromRow(row))
	}
	return out, nil
}

func keyConditions(key lineup.Key) []qb.Condition {
	return []qb.Condition{
		qb.Eq("match_public_id", key.MatchID),
		qb.Eq("team_public_id", key.TeamID),
		qb.Eq("player_public_id", key.PlayerID),
	}
}

func lineupFromRow(row lineupTableModel) lineup.Entry {
	return lineup.Entry{
		MatchID:      row.MatchID,
		TeamID:       row.TeamID,
		PlayerID:     row.PlayerID,
		JerseyNumber: nullInt64ToIntPtr(row.JerseyNumber),
		CreatedAt:    row.CreatedAt,
	}
}
