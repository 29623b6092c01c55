package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-engine/internal/domain/league"
	qb "github.com/riskibarqy/league-engine/internal/platform/querybuilder"
)

const activeLeagueScopeIndex = "ux_leagues_active_scope"

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build select leagues query")
	}

	var rows []leagueTableModel
	if err := conn(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "select leagues")
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, leagueFromRow(row))
	}
	return out, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("public_id", leagueID)).
		ToSQL()
	if err != nil {
		return league.League{}, false, crerr.Wrap(err, "build get league by id query")
	}

	var row leagueTableModel
	if err := conn(ctx, r.db).GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, crerr.Wrapf(err, "get league id=%s", leagueID)
	}
	return leagueFromRow(row), true, nil
}

func (r *LeagueRepository) Create(ctx context.Context, item league.League) error {
	query, args, err := qb.InsertModel("leagues", leagueInsertModel{
		PublicID: item.ID,
		Name:     item.Name,
		Season:   item.Season,
		Scope:    item.Scope,
		Status:   item.Status,
	})
	if err != nil {
		return crerr.Wrap(err, "build insert league query")
	}
	if _, err := conn(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, activeLeagueScopeIndex) {
			return league.ErrActiveLeagueExists
		}
		return crerr.Wrapf(err, "insert league id=%s", item.ID)
	}
	return nil
}

func (r *LeagueRepository) UpdateStatus(ctx context.Context, leagueID, status string) error {
	query, args, err := qb.Update("leagues").
		Set("status", status).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", leagueID)).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build update league status query")
	}
	if _, err := conn(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, activeLeagueScopeIndex) {
			return league.ErrActiveLeagueExists
		}
		return crerr.Wrapf(err, "update league status id=%s", leagueID)
	}
	return nil
}

func (r *LeagueRepository) Delete(ctx context.Context, leagueID string) error {
	query, args, err := qb.DeleteFrom("leagues").
		Where(qb.Eq("public_id", leagueID)).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build delete league query")
	}
	if _, err := conn(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "delete league id=%s", leagueID)
	}
	return nil
}

func leagueFromRow(row leagueTableModel) league.League {
	return league.League{
		ID:     row.PublicID,
		Name:   row.Name,
		Season: row.Season,
		Scope:  row.Scope,
		Status: row.Status,
	}
}
