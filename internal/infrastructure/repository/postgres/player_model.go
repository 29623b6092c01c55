package postgres

import "time"

type playerTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	Username  string    `db:"username"`
	FullName  string    `db:"full_name"`
	Phone     string    `db:"phone"`
	City      string    `db:"city"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type playerInsertModel struct {
	PublicID  string    `db:"public_id"`
	Username  string    `db:"username"`
	FullName  string    `db:"full_name"`
	Phone     string    `db:"phone"`
	City      string    `db:"city"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
