package postgres

import "time"

type leagueTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	Name      string    `db:"name"`
	Season    string    `db:"season"`
	Scope     string    `db:"scope"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type leagueInsertModel struct {
	PublicID string `db:"public_id"`
	Name     string `db:"name"`
	Season   string `db:"season"`
	Scope    string `db:"scope"`
	Status   string `db:"status"`
}
