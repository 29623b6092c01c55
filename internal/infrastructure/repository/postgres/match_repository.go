package postgres

import (
	"context"
	"database/sql"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-engine/internal/domain/match"
	qb "github.com/riskibarqy/league-engine/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, crerr.Wrap(err, "build get match by id query")
	}

	var row matchTableModel
	if err := conn(ctx, r.db).GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, crerr.Wrapf(err, "get match id=%s", matchID)
	}
	return matchFromRow(row), true, nil
}

func (r *MatchRepository) ListByLeague(ctx context.Context, leagueID string) ([]match.Match, error) {
	return r.list(ctx, qb.Eq("league_public_id", leagueID))
}

func (r *MatchRepository) ListByLeagues(ctx context.Context, leagueIDs []string) ([]match.Match, error) {
	if len(leagueIDs) == 0 {
		return []match.Match{}, nil
	}
	return r.list(ctx, qb.In("league_public_id", inArgs(leagueIDs)))
}

func (r *MatchRepository) CountByTeam(ctx context.Context, teamID string) (int, error) {
	return r.count(ctx, qb.Expr("(home_team_public_id = ? OR away_team_public_id = ?)", teamID, teamID))
}

func (r *MatchRepository) CountByLeague(ctx context.Context, leagueID string) (int, error) {
	return r.count(ctx, qb.Eq("league_public_id", leagueID))
}

func (r *MatchRepository) Create(ctx context.Context, item match.Match) error {
	insertModel := matchInsertModel{
		PublicID:   item.ID,
		LeagueID:   item.LeagueID,
		Matchday:   item.Matchday,
		HomeTeamID: item.HomeTeamID,
		AwayTeamID: item.AwayTeamID,
		Status:     item.Status,
		MatchTime:  item.Time,
		Location:   item.Location,
		Version:    item.Version,
	}
	if item.Date != nil {
		insertModel.MatchDate = sql.NullTime{Time: *item.Date, Valid: true}
	}
	query, args, err := qb.InsertModel("matches", insertModel)
	if err != nil {
		return crerr.Wrap(err, "build insert match query")
	}
	if _, err := conn(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "insert match id=%s", item.ID)
	}
	return nil
}

func (r *MatchRepository) UpdateStatus(ctx context.Context, matchID, status string) error {
	query, args, err := qb.Update("matches").
		Set("status", status).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build update match status query")
	}
	if _, err := conn(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "update match status id=%s", matchID)
	}
	return nil
}

// WithVersionLock locks the match row, checks its version and runs fn in the same
// transaction. The version is bumped before commit; a match deleted by fn keeps expected.
func (r *MatchRepository) WithVersionLock(ctx context.Context, matchID string, expected int64, fn func(ctx context.Context) error) (int64, error) {
	lockQuery, lockArgs, err := qb.Select("version").From("matches").
		Where(qb.Eq("public_id", matchID)).
		ForUpdate().
		ToSQL()
	if err != nil {
		return 0, crerr.Wrap(err, "build lock match query")
	}
	bumpQuery, bumpArgs, err := qb.Update("matches").
		SetExpr("version", "version + 1").
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", matchID)).
		Returning("version").
		ToSQL()
	if err != nil {
		return 0, crerr.Wrap(err, "build bump match version query")
	}

	version := expected
	err = withTx(ctx, r.db, "match write", func(tx *sqlx.Tx) error {
		var current int64
		if err := tx.GetContext(ctx, &current, lockQuery, lockArgs...); err != nil {
			if isNotFound(err) {
				return match.ErrVersionConflict
			}
			return crerr.Wrapf(err, "lock match id=%s", matchID)
		}
		if current != expected {
			return match.ErrVersionConflict
		}

		if err := fn(contextWithTx(ctx, tx)); err != nil {
			return err
		}

		if err := tx.GetContext(ctx, &version, bumpQuery, bumpArgs...); err != nil {
			if isNotFound(err) {
				version = expected
				return nil
			}
			return crerr.Wrapf(err, "bump match version id=%s", matchID)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return version, nil
}

// Delete relies on ON DELETE CASCADE for lineups and events.
func (r *MatchRepository) Delete(ctx context.Context, matchID string) error {
	query, args, err := qb.DeleteFrom("matches").
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build delete match query")
	}
	if _, err := conn(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "delete match id=%s", matchID)
	}
	return nil
}

func (r *MatchRepository) list(ctx context.Context, condition qb.Condition) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(condition).
		OrderBy("matchday", "match_date NULLS LAST", "match_time", "public_id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list matches query")
	}

	var rows []matchTableModel
	if err := conn(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "list matches")
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) count(ctx context.Context, condition qb.Condition) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("matches").
		Where(condition).
		ToSQL()
	if err != nil {
		return 0, crerr.Wrap(err, "build count matches query")
	}

	var total int
	if err := conn(ctx, r.db).GetContext(ctx, &total, query, args...); err != nil {
		return 0, crerr.Wrap(err, "count matches")
	}
	return total, nil
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:         row.PublicID,
		LeagueID:   row.LeagueID,
		Matchday:   row.Matchday,
		HomeTeamID: row.HomeTeamID,
		AwayTeamID: row.AwayTeamID,
		Status:     row.Status,
		Date:       nullTimeToTimePtr(row.MatchDate),
		Time:       row.MatchTime,
		Location:   row.Location,
		Version:    row.Version,
	}
}
