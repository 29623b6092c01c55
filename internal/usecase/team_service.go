package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/league-engine/internal/domain/match"
	"github.com/riskibarqy/league-engine/internal/domain/team"
	"github.com/riskibarqy/league-engine/internal/platform/id"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
)

type CreateTeamInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Color   string `json:"color" validate:"omitempty,max=32"`
	LogoURL string `json:"logo_url" validate:"omitempty,url"`
}

// UpdateTeamInput changes only the fields that are set.
type UpdateTeamInput struct {
	ID      string  `json:"id" validate:"required"`
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Color   *string `json:"color,omitempty" validate:"omitempty,max=32"`
	LogoURL *string `json:"logo_url,omitempty" validate:"omitempty,url"`
}

type TeamService struct {
	teamRepo  team.Repository
	matchRepo match.Repository
	idGen     id.Generator
	validator *validator.Validate
	logger    *logging.Logger
}

func NewTeamService(teamRepo team.Repository, matchRepo match.Repository, idGen id.Generator, logger *logging.Logger) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TeamService{
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
		idGen:     idGen,
		validator: validator.New(),
		logger:    logger,
	}
}

func (s *TeamService) Get(ctx context.Context, teamID string) (team.Team, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	item, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	return item, nil
}

func (s *TeamService) Create(ctx context.Context, input CreateTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Create")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.Color = strings.TrimSpace(input.Color)
	input.LogoURL = strings.TrimSpace(input.LogoURL)
	if err := validateInput(ctx, s.validator, input); err != nil {
		return team.Team{}, err
	}

	teamID, err := s.idGen.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}
	item := team.Team{
		ID:      teamID,
		Name:    input.Name,
		Color:   input.Color,
		LogoURL: input.LogoURL,
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.teamRepo.Create(ctx, item); err != nil {
		return team.Team{}, fmt.Errorf("create team: %w", err)
	}

	s.logger.InfoContext(ctx, "team created", "team_id", item.ID)
	return item, nil
}

func (s *TeamService) Update(ctx context.Context, input UpdateTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Update")
	defer span.End()

	input.ID = strings.TrimSpace(input.ID)
	trimPtr(input.Name)
	trimPtr(input.Color)
	trimPtr(input.LogoURL)
	if err := validateInput(ctx, s.validator, input); err != nil {
		return team.Team{}, err
	}

	item, err := s.Get(ctx, input.ID)
	if err != nil {
		return team.Team{}, err
	}
	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Color != nil {
		item.Color = *input.Color
	}
	if input.LogoURL != nil {
		item.LogoURL = *input.LogoURL
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.teamRepo.Update(ctx, item); err != nil {
		return team.Team{}, fmt.Errorf("update team: %w", err)
	}

	s.logger.InfoContext(ctx, "team updated", "team_id", item.ID)
	return item, nil
}

// Delete refuses to remove a team referenced by any match.
func (s *TeamService) Delete(ctx context.Context, teamID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Delete")
	defer span.End()

	item, err := s.Get(ctx, teamID)
	if err != nil {
		return err
	}

	count, err := s.matchRepo.CountByTeam(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("count matches by team: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: team=%s plays in %d matches", ErrPreconditionFailed, item.ID, count)
	}

	if err := s.teamRepo.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}

	s.logger.InfoContext(ctx, "team deleted", "team_id", item.ID)
	return nil
}

func trimPtr(value *string) {
	if value != nil {
		*value = strings.TrimSpace(*value)
	}
}
