package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/league-engine/internal/domain/league"
	"github.com/riskibarqy/league-engine/internal/domain/match"
	"github.com/riskibarqy/league-engine/internal/platform/id"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
)

type CreateLeagueInput struct {
	Name   string `json:"name" validate:"required,max=100"`
	Season string `json:"season" validate:"required,max=32"`
	Scope  string `json:"scope" validate:"omitempty,max=64"`
	Status string `json:"status" validate:"omitempty,oneof=draft active completed"`
}

type LeagueService struct {
	leagueRepo league.Repository
	matchRepo  match.Repository
	idGen      id.Generator
	validator  *validator.Validate
	logger     *logging.Logger
}

func NewLeagueService(leagueRepo league.Repository, matchRepo match.Repository, idGen id.Generator, logger *logging.Logger) *LeagueService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeagueService{
		leagueRepo: leagueRepo,
		matchRepo:  matchRepo,
		idGen:      idGen,
		validator:  validator.New(),
		logger:     logger,
	}
}

func (s *LeagueService) ListLeagues(ctx context.Context) ([]league.League, error) {
	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	return leagues, nil
}

func (s *LeagueService) Get(ctx context.Context, leagueID string) (league.League, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	item, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	return item, nil
}

func (s *LeagueService) Create(ctx context.Context, input CreateLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Create")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.Season = strings.TrimSpace(input.Season)
	input.Scope = strings.TrimSpace(input.Scope)
	input.Status = strings.ToLower(strings.TrimSpace(input.Status))
	if err := validateInput(ctx, s.validator, input); err != nil {
		return league.League{}, err
	}
	if input.Status == "" {
		input.Status = league.StatusDraft
	}

	leagueID, err := s.idGen.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate league id: %w", err)
	}
	item := league.League{
		ID:     leagueID,
		Name:   input.Name,
		Season: input.Season,
		Scope:  input.Scope,
		Status: input.Status,
	}
	if err := item.Validate(); err != nil {
		return league.League{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.leagueRepo.Create(ctx, item); err != nil {
		if errors.Is(err, league.ErrActiveLeagueExists) {
			return league.League{}, fmt.Errorf("%w: scope %q already has an active league", ErrConflict, item.Scope)
		}
		return league.League{}, fmt.Errorf("create league: %w", err)
	}

	s.logger.InfoContext(ctx, "league created", "league_id", item.ID, "status", item.Status)
	return item, nil
}

// SetStatus changes the league status. Activating a league fails with ErrConflict while
// another league of the same scope is active.
func (s *LeagueService) SetStatus(ctx context.Context, leagueID, status string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.SetStatus")
	defer span.End()

	status = strings.ToLower(strings.TrimSpace(status))
	if !league.IsValidStatus(status) {
		return league.League{}, fmt.Errorf("%w: unknown league status %q", ErrInvalidInput, status)
	}

	item, err := s.Get(ctx, leagueID)
	if err != nil {
		return league.League{}, err
	}
	if item.Status == status {
		return item, nil
	}

	if err := s.leagueRepo.UpdateStatus(ctx, item.ID, status); err != nil {
		if errors.Is(err, league.ErrActiveLeagueExists) {
			return league.League{}, fmt.Errorf("%w: scope %q already has an active league", ErrConflict, item.Scope)
		}
		return league.League{}, fmt.Errorf("update league status: %w", err)
	}

	s.logger.InfoContext(ctx, "league status updated",
		"league_id", item.ID,
		"from", item.Status,
		"to", status,
	)
	item.Status = status
	return item, nil
}

// Delete refuses to remove a league that still has matches.
func (s *LeagueService) Delete(ctx context.Context, leagueID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Delete")
	defer span.End()

	item, err := s.Get(ctx, leagueID)
	if err != nil {
		return err
	}

	count, err := s.matchRepo.CountByLeague(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("count matches by league: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: league=%s still has %d matches", ErrPreconditionFailed, item.ID, count)
	}

	if err := s.leagueRepo.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("delete league: %w", err)
	}

	s.logger.InfoContext(ctx, "league deleted", "league_id", item.ID)
	return nil
}
