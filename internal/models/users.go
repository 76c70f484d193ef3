package models

import (
	"database/sql"
	"time"
)

type User struct {
	ID             string         `db:"id"`
	FirstName      string         `db:"first_name"`
	LastName       string         `db:"last_name"`
	PhoneNumber    string         `db:"phone_number"`
	Email          string         `db:"email"`
	Nationality    sql.NullString `db:"nationality"`
	Role           string         `db:"role"`
	Status         string         `db:"status"`
	KycVerified    bool           `db:"kyc_verified"`
	CreatedAt      time.Time      `db:"created_at"`
	DeletedAt      sql.NullTime   `db:"deleted_at"`
	VerifiedAt     sql.NullTime   `db:"verified_at"`
	HashedPassword string         `db:"hashed_password"`
}
