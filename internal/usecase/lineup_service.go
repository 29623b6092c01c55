package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/league-engine/internal/domain/changefeed"
	"github.com/riskibarqy/league-engine/internal/domain/lineup"
	"github.com/riskibarqy/league-engine/internal/domain/match"
	"github.com/riskibarqy/league-engine/internal/domain/player"
	"github.com/riskibarqy/league-engine/internal/platform/keylock"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
)

type AddLineupEntryInput struct {
	MatchID      string `json:"match_id" validate:"required"`
	TeamID       string `json:"team_id" validate:"required"`
	PlayerID     string `json:"player_id" validate:"required"`
	JerseyNumber *int   `json:"jersey_number,omitempty" validate:"omitempty,min=0"`
}

// LineupService manages who plays for which team in a match and their jersey numbers.
// Numbers are unique per match and team.
type LineupService struct {
	matchRepo  match.Repository
	playerRepo player.Repository
	lineupRepo lineup.Repository
	guard      *matchWriteGuard
	notifier   notifier
	validator  *validator.Validate
	logger     *logging.Logger
	now        func() time.Time
}

func NewLineupService(
	matchRepo match.Repository,
	playerRepo player.Repository,
	lineupRepo lineup.Repository,
	locks *keylock.Map,
	publisher changefeed.Publisher,
	logger *logging.Logger,
) *LineupService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LineupService{
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
		lineupRepo: lineupRepo,
		guard:      newMatchWriteGuard(locks, matchRepo),
		notifier:   newNotifier(publisher, logger),
		validator:  validator.New(),
		logger:     logger,
		now:        time.Now,
	}
}

// AddEntry puts a player in a team's lineup. Adding an existing entry is idempotent. A
// jersey number held by another player of the team rejects the call before anything is
// stored.
func (s *LineupService) AddEntry(ctx context.Context, input AddLineupEntryInput) (lineup.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.AddEntry")
	defer span.End()

	input.MatchID = strings.TrimSpace(input.MatchID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	if err := validateInput(ctx, s.validator, input); err != nil {
		return lineup.Entry{}, err
	}

	key := lineup.Key{MatchID: input.MatchID, TeamID: input.TeamID, PlayerID: input.PlayerID}
	var stored lineup.Entry
	item, err := s.guard.withMatch(ctx, input.MatchID, func(ctx context.Context, item match.Match) error {
		if !item.HasTeam(input.TeamID) {
			return fmt.Errorf("%w: team=%s does not play match=%s", ErrInvalidInput, input.TeamID, item.ID)
		}
		_, exists, err := s.playerRepo.GetByID(ctx, input.PlayerID)
		if err != nil {
			return fmt.Errorf("get player: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: player=%s", ErrNotFound, input.PlayerID)
		}

		if input.JerseyNumber != nil {
			entries, err := s.lineupRepo.ListByMatch(ctx, item.ID)
			if err != nil {
				return fmt.Errorf("list lineup entries: %w", err)
			}
			if holder, taken := lineup.JerseyHolder(entries, key, *input.JerseyNumber); taken {
				return fmt.Errorf("%w: jersey number %d is already taken by player=%s in team=%s", ErrConflict, *input.JerseyNumber, holder.PlayerID, key.TeamID)
			}
		}

		if err := s.lineupRepo.Add(ctx, lineup.Entry{
			MatchID:   key.MatchID,
			TeamID:    key.TeamID,
			PlayerID:  key.PlayerID,
			CreatedAt: s.now().UTC(),
		}); err != nil {
			return fmt.Errorf("add lineup entry: %w", err)
		}
		if input.JerseyNumber != nil {
			if err := s.setJersey(ctx, key, input.JerseyNumber); err != nil {
				return err
			}
		}

		entry, _, err := s.lineupRepo.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("get lineup entry: %w", err)
		}
		stored = entry
		return nil
	})
	if err != nil {
		return lineup.Entry{}, err
	}

	s.logger.InfoContext(ctx, "lineup entry added",
		"match_id", key.MatchID,
		"team_id", key.TeamID,
		"player_id", key.PlayerID,
	)
	s.notifier.notify(ctx, changefeed.KindLineupChanged, item.LeagueID, item.ID)
	return stored, nil
}

// AssignJersey sets or, with a nil number, clears the jersey of a lineup entry.
func (s *LineupService) AssignJersey(ctx context.Context, matchID, teamID, playerID string, number *int) (lineup.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.AssignJersey")
	defer span.End()

	key := lineup.Key{
		MatchID:  strings.TrimSpace(matchID),
		TeamID:   strings.TrimSpace(teamID),
		PlayerID: strings.TrimSpace(playerID),
	}
	if key.MatchID == "" || key.TeamID == "" || key.PlayerID == "" {
		return lineup.Entry{}, fmt.Errorf("%w: match_id, team_id and player_id are required", ErrInvalidInput)
	}
	if number != nil && *number < 0 {
		return lineup.Entry{}, fmt.Errorf("%w: jersey number must not be negative", ErrInvalidInput)
	}

	var stored lineup.Entry
	item, err := s.guard.withMatch(ctx, key.MatchID, func(ctx context.Context, _ match.Match) error {
		if err := s.setJersey(ctx, key, number); err != nil {
			return err
		}
		entry, _, err := s.lineupRepo.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("get lineup entry: %w", err)
		}
		stored = entry
		return nil
	})
	if err != nil {
		return lineup.Entry{}, err
	}

	s.logger.InfoContext(ctx, "jersey number assigned",
		"match_id", key.MatchID,
		"team_id", key.TeamID,
		"player_id", key.PlayerID,
		"jersey_number", number,
	)
	s.notifier.notify(ctx, changefeed.KindLineupChanged, item.LeagueID, item.ID)
	return stored, nil
}

func (s *LineupService) ListByMatch(ctx context.Context, matchID string) ([]lineup.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.ListByMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	_, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	entries, err := s.lineupRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list lineup entries: %w", err)
	}
	lineup.SortForDisplay(entries)
	return entries, nil
}

func (s *LineupService) setJersey(ctx context.Context, key lineup.Key, number *int) error {
	err := s.lineupRepo.SetJersey(ctx, key, number)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, lineup.ErrEntryNotFound):
		return fmt.Errorf("%w: lineup entry match=%s team=%s player=%s", ErrNotFound, key.MatchID, key.TeamID, key.PlayerID)
	case errors.Is(err, lineup.ErrJerseyTaken):
		return fmt.Errorf("%w: jersey number %d is already taken in team=%s", ErrConflict, *number, key.TeamID)
	default:
		return fmt.Errorf("set jersey number: %w", err)
	}
}
