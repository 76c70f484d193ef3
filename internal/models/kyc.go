package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// KYCRecord is the single verification record a user owns. Business fields
// are overwritten wholesale on resubmission; only the lifecycle columns
// change on review.
type KYCRecord struct {
	ID     string `db:"id"`
	UserID string `db:"user_id"`

	FirstName   string         `db:"first_name"`
	MiddleName  sql.NullString `db:"middle_name"`
	LastName    string         `db:"last_name"`
	DateOfBirth time.Time      `db:"date_of_birth"`
	Nationality string         `db:"nationality"`

	PassportNumber     string    `db:"passport_number"`
	PassportIssuePlace string    `db:"passport_issue_place"`
	PassportIssueDate  time.Time `db:"passport_issue_date"`
	PassportExpiryDate time.Time `db:"passport_expiry_date"`

	VisaType         string    `db:"visa_type"`
	VisaIssueDate    time.Time `db:"visa_issue_date"`
	VisaExpiryDate   time.Time `db:"visa_expiry_date"`
	ExpectedExitDate time.Time `db:"expected_exit_date"`

	SourceOfFunds            string          `db:"source_of_funds"`
	EstimatedAmountToConvert decimal.Decimal `db:"estimated_amount_to_convert"`
	MonthlyIncomeRange       string          `db:"monthly_income_range"`

	// durable storage references for the four uploaded documents
	PassportPhotoPage string `db:"passport_photo_page"`
	VisaPage          string `db:"visa_page"`
	Selfie            string `db:"selfie"`
	ProofOfAddress    string `db:"proof_of_address"`

	Status      string         `db:"status"`
	SubmittedAt time.Time      `db:"submitted_at"`
	ReviewedAt  sql.NullTime   `db:"reviewed_at"`
	ReviewerID  sql.NullString `db:"reviewer_id"`
}
