package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-engine/internal/domain/roster"
	qb "github.com/riskibarqy/league-engine/internal/platform/querybuilder"
)

type RosterConflictRepository struct {
	db *sqlx.DB
}

func NewRosterConflictRepository(db *sqlx.DB) *RosterConflictRepository {
	return &RosterConflictRepository{db: db}
}

func (r *RosterConflictRepository) Create(ctx context.Context, item roster.Conflict) error {
	candidate, err := encodeCandidate(item.Candidate)
	if err != nil {
		return err
	}
	insertModel := rosterConflictInsertModel{
		PublicID:  item.ID,
		Username:  item.Candidate.Username,
		Candidate: candidate,
		Score:     item.Score,
		Status:    item.Status,
		CreatedAt: item.CreatedAt,
	}
	if item.ExistingPlayerID != nil {
		insertModel.ExistingPlayerID = sql.NullString{String: *item.ExistingPlayerID, Valid: true}
	}

	query, args, err := qb.InsertModel("roster_conflicts", insertModel)
	if err != nil {
		return crerr.Wrap(err, "build insert roster conflict query")
	}
	if _, err := conn(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "insert roster conflict id=%s", item.ID)
	}
	return nil
}

func (r *RosterConflictRepository) GetByID(ctx context.Context, conflictID string) (roster.Conflict, bool, error) {
	return r.getOne(ctx, qb.Eq("public_id", conflictID))
}

func (r *RosterConflictRepository) GetLatestByUsername(ctx context.Context, username string) (roster.Conflict, bool, error) {
	return r.getOne(ctx, qb.Eq("username", username))
}

func (r *RosterConflictRepository) List(ctx context.Context, status string) ([]roster.Conflict, error) {
	builder := conflictSelect().OrderBy("created_at", "id")
	if status != "" {
		builder = builder.Where(qb.Eq("status", status))
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list roster conflicts query")
	}

	var rows []rosterConflictTableModel
	if err := conn(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "list roster conflicts")
	}

	out := make([]roster.Conflict, 0, len(rows))
	for _, row := range rows {
		item, err := conflictFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *RosterConflictRepository) UpdateStatusIfPending(ctx context.Context, conflictID, status string, resolvedAt time.Time) (bool, error) {
	query, args, err := qb.Update("roster_conflicts").
		Set("status", status).
		Set("resolved_at", resolvedAt).
		Where(
			qb.Eq("public_id", conflictID),
			qb.Eq("status", roster.StatusPending),
		).
		ToSQL()
	if err != nil {
		return false, crerr.Wrap(err, "build close roster conflict query")
	}

	result, err := conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return false, crerr.Wrapf(err, "close roster conflict id=%s", conflictID)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, crerr.Wrap(err, "rows affected close roster conflict")
	}
	return affected == 1, nil
}

func (r *RosterConflictRepository) getOne(ctx context.Context, conditions ...qb.Condition) (roster.Conflict, bool, error) {
	query, args, err := conflictSelect().
		Where(conditions...).
		OrderBy("created_at DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return roster.Conflict{}, false, crerr.Wrap(err, "build get roster conflict query")
	}

	var row rosterConflictTableModel
	if err := conn(ctx, r.db).GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.Conflict{}, false, nil
		}
		return roster.Conflict{}, false, crerr.Wrap(err, "get roster conflict")
	}
	item, err := conflictFromRow(row)
	if err != nil {
		return roster.Conflict{}, false, err
	}
	return item, true, nil
}

func conflictSelect() *qb.SelectBuilder {
	return qb.Select(
		"id",
		"public_id",
		"username",
		"candidate::text AS candidate",
		"existing_player_public_id",
		"score",
		"status",
		"created_at",
		"resolved_at",
	).From("roster_conflicts")
}

// encodeCandidate stores the candidate as JSONB text; lib/pq sends it untyped so the
// column type drives the cast.
func encodeCandidate(candidate roster.Candidate) (string, error) {
	encoded, err := sonic.MarshalString(candidate)
	if err != nil {
		return "", crerr.Wrap(err, "encode roster candidate")
	}
	return encoded, nil
}

func conflictFromRow(row rosterConflictTableModel) (roster.Conflict, error) {
	var candidate roster.Candidate
	if err := sonic.UnmarshalString(row.Candidate, &candidate); err != nil {
		return roster.Conflict{}, crerr.Wrapf(err, "decode roster candidate conflict=%s", row.PublicID)
	}

	item := roster.Conflict{
		ID:         row.PublicID,
		Candidate:  candidate,
		Score:      row.Score,
		Status:     row.Status,
		CreatedAt:  row.CreatedAt,
		ResolvedAt: nullTimeToTimePtr(row.ResolvedAt),
	}
	if row.ExistingPlayerID.Valid {
		existing := row.ExistingPlayerID.String
		item.ExistingPlayerID = &existing
	}
	return item, nil
}
