package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID              string              `db:"id"`
	UserID          string              `db:"user_id"`
	Type            string              `db:"type"`
	ReferenceNumber string              `db:"reference_number"`
	AmountForeign   decimal.NullDecimal `db:"amount_foreign"`
	Currency        sql.NullString      `db:"currency"`
	AmountNPR       decimal.Decimal     `db:"amount_npr"`
	ServiceFee      decimal.Decimal     `db:"service_fee"`
	VendorID        sql.NullString      `db:"vendor_id"`
	Description     sql.NullString      `db:"description"`
	CreatedAt       time.Time           `db:"created_at"`
}
