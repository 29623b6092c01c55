package memory

import (
	"time"

	"github.com/riskibarqy/league-engine/internal/domain/league"
	"github.com/riskibarqy/league-engine/internal/domain/player"
	"github.com/riskibarqy/league-engine/internal/domain/team"
)

const (
	LeagueIDJakartaSunday = "jkt-sunday-league-2025"
	LeagueIDBandungCup    = "bdg-futsal-cup-2025"
)

// Seed data lets the projector run against memory storage without a database.

func SeedLeagues() []league.League {
	return []league.League{
		{
			ID:     LeagueIDJakartaSunday,
			Name:   "Jakarta Sunday League",
			Season: "2025",
			Scope:  "jakarta",
			Status: league.StatusActive,
		},
		{
			ID:     LeagueIDBandungCup,
			Name:   "Bandung Futsal Cup",
			Season: "2025",
			Scope:  "bandung",
			Status: league.StatusDraft,
		},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "team-garuda", Name: "Garuda FC", Color: "#c0392b"},
		{ID: "team-elang", Name: "Elang United", Color: "#2980b9"},
		{ID: "team-harimau", Name: "Harimau Muda", Color: "#f39c12"},
		{ID: "team-badak", Name: "Badak Putih", Color: "#7f8c8d"},
	}
}

func SeedPlayers() []player.Player {
	created := time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)
	return []player.Player{
		{ID: "player-andi", Username: "andi.pratama", FullName: "Andi Pratama", Phone: "+6281234500001", City: "Jakarta", CreatedAt: created, UpdatedAt: created},
		{ID: "player-budi", Username: "budi.santoso", FullName: "Budi Santoso", Phone: "+6281234500002", City: "Jakarta", CreatedAt: created, UpdatedAt: created},
		{ID: "player-citra", Username: "citra.lestari", FullName: "Citra Lestari", Phone: "+6281234500003", City: "Bandung", CreatedAt: created, UpdatedAt: created},
		{ID: "player-dewi", Username: "dewi.anggraini", FullName: "Dewi Anggraini", Phone: "+6281234500004", City: "Bandung", CreatedAt: created, UpdatedAt: created},
		{ID: "player-eko", Username: "eko.saputra", FullName: "Eko Saputra", Phone: "+6281234500005", City: "Jakarta", CreatedAt: created, UpdatedAt: created},
		{ID: "player-fajar", Username: "fajar.nugroho", FullName: "Fajar Nugroho", Phone: "+6281234500006", City: "Depok", CreatedAt: created, UpdatedAt: created},
	}
}
