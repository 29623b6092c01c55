package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert player: %w", &pq.Error{Code: pqUniqueViolation, Constraint: "ux_players_username"})

	if !isUniqueViolation(err, "") {
		t.Fatalf("expected any unique violation to match")
	}
	if !isUniqueViolation(err, "ux_players_username") {
		t.Fatalf("expected named constraint to match")
	}
	if isUniqueViolation(err, "ux_match_lineups_jersey") {
		t.Fatalf("expected other constraint not to match")
	}
	if isUniqueViolation(fmt.Errorf("boom"), "") {
		t.Fatalf("expected plain error not to match")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	if !isForeignKeyViolation(&pq.Error{Code: pqForeignKeyViolation}) {
		t.Fatalf("expected foreign key violation")
	}
	if isForeignKeyViolation(&pq.Error{Code: pqUniqueViolation}) {
		t.Fatalf("unique violation is not a foreign key violation")
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get match: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
}

func TestNullConversions(t *testing.T) {
	if got := nullInt64ToIntPtr(sql.NullInt64{}); got != nil {
		t.Fatalf("expected nil, got %d", *got)
	}
	seven := 7
	round := nullInt64ToIntPtr(intPtrToNullInt64(&seven))
	if round == nil || *round != 7 {
		t.Fatalf("unexpected round trip: %v", round)
	}
	if intPtrToNullInt64(nil).Valid {
		t.Fatalf("expected invalid null int")
	}

	now := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	if got := nullTimeToTimePtr(sql.NullTime{Time: now, Valid: true}); got == nil || !got.Equal(now) {
		t.Fatalf("unexpected time: %v", got)
	}
}

func TestConnPrefersContextTx(t *testing.T) {
	db := &sqlx.DB{}
	if got := conn(context.Background(), db); got != executor(db) {
		t.Fatalf("expected db without a tx in context")
	}

	tx := &sqlx.Tx{}
	ctx := contextWithTx(context.Background(), tx)
	if got := conn(ctx, db); got != executor(tx) {
		t.Fatalf("expected the context tx")
	}

	joined := false
	if err := withTx(ctx, db, "nested", func(inner *sqlx.Tx) error {
		joined = inner == tx
		return nil
	}); err != nil {
		t.Fatalf("nested withTx: %v", err)
	}
	if !joined {
		t.Fatalf("expected withTx to join the context tx")
	}
}
