package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-engine/internal/domain/leaguestanding"
	qb "github.com/riskibarqy/league-engine/internal/platform/querybuilder"
)

type LeagueStandingRepository struct {
	db *sqlx.DB
}

func NewLeagueStandingRepository(db *sqlx.DB) *LeagueStandingRepository {
	return &LeagueStandingRepository{db: db}
}

func (r *LeagueStandingRepository) ListByLeague(ctx context.Context, leagueID string) ([]leaguestanding.Standing, error) {
	query, args, err := qb.Select(
		"s.league_public_id",
		"s.team_public_id",
		"t.name AS team_name",
		"t.color AS team_color",
		"s.position",
		"s.played",
		"s.won",
		"s.drawn",
		"s.lost",
		"s.goals_for",
		"s.goals_against",
		"s.goal_difference",
		"s.points",
		"s.computed_at",
	).From("league_standings s JOIN teams t ON t.public_id = s.team_public_id").
		Where(qb.Eq("s.league_public_id", leagueID)).
		OrderBy("s.position", "s.team_public_id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list league standings query")
	}

	var rows []leagueStandingTableModel
	if err := conn(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "list league standings league=%s", leagueID)
	}

	out := make([]leaguestanding.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaguestanding.Standing{
			LeagueID:       row.LeagueID,
			TeamID:         row.TeamID,
			TeamName:       row.TeamName,
			TeamColor:      row.TeamColor,
			Position:       row.Position,
			Played:         row.Played,
			Won:            row.Won,
			Drawn:          row.Drawn,
			Lost:           row.Lost,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			Points:         row.Points,
			ComputedAt:     nullTimeToTimePtr(row.ComputedAt),
		})
	}
	return out, nil
}

// ReplaceByLeague swaps the whole snapshot of a league in one transaction.
func (r *LeagueStandingRepository) ReplaceByLeague(ctx context.Context, leagueID string, standings []leaguestanding.Standing) error {
	clearQuery, clearArgs, err := qb.DeleteFrom("league_standings").
		Where(qb.Eq("league_public_id", leagueID)).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build clear league standings query")
	}

	return withTx(ctx, r.db, "replace league standings", func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
			return crerr.Wrapf(err, "clear league standings league=%s", leagueID)
		}

		for _, item := range standings {
			query, args, err := qb.InsertModel("league_standings", leagueStandingInsertModel{
				LeagueID:       leagueID,
				TeamID:         item.TeamID,
				Position:       item.Position,
				Played:         item.Played,
				Won:            item.Won,
				Drawn:          item.Drawn,
				Lost:           item.Lost,
				GoalsFor:       item.GoalsFor,
				GoalsAgainst:   item.GoalsAgainst,
				GoalDifference: item.GoalDifference,
				Points:         item.Points,
				ComputedAt:     item.ComputedAt,
			})
			if err != nil {
				return crerr.Wrap(err, "build insert league standing query")
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return crerr.Wrapf(err, "insert league standing league=%s team=%s", leagueID, item.TeamID)
			}
		}
		return nil
	})
}
