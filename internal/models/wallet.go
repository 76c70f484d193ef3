package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type Wallet struct {
	ID            string          `db:"id"`
	UserID        string          `db:"user_id"`
	BalanceNPR    decimal.Decimal `db:"balance_npr"`
	AccountNumber string          `db:"account_number"`
	Currency      string          `db:"currency"`
	Status        string          `db:"status"`
	CreatedAt     time.Time       `db:"created_at"`
	DeletedAt     sql.NullTime    `db:"deleted_at"`
	UpdatedAt     sql.NullTime    `db:"updated_at"`
}
