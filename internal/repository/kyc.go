package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/yatrapay/yatrapay/internal/models"
)

const (
	KycStatusPending  = "pending"
	KycStatusApproved = "approved"
	KycStatusRejected = "rejected"
)

var ErrInvalidDecision = errors.New("decision must be approved or rejected")

type KycRepository interface {
	Upsert(record *models.KYCRecord) (string, error)
	GetOne(id string) (*models.KYCRecord, bool, error)
	GetByUserID(userID string) (*models.KYCRecord, bool, error)
	Decide(id, decision, reviewerID string) (*models.KYCRecord, bool, error)
}

type KycRepositoryImpl struct {
	db *sqlx.DB
}

func NewKycRepository(db *sqlx.DB) KycRepository {
	return &KycRepositoryImpl{db: db}
}

// Upsert stores a submission. A user has at most one record: an existing
// row is overwritten wholesale and its lifecycle reset to pending with
// reviewed_at/reviewer cleared, all in one statement so a concurrent review
// of the old submission cannot interleave with the reset. The owner's
// kyc_verified flag drops to false in the same transaction, so a fresh
// submission is never auto-approved.
func (repo *KycRepositoryImpl) Upsert(record *models.KYCRecord) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var id string
	query := `
		INSERT INTO kyc_records (
			user_id,
			first_name, middle_name, last_name, date_of_birth, nationality,
			passport_number, passport_issue_place, passport_issue_date, passport_expiry_date,
			visa_type, visa_issue_date, visa_expiry_date, expected_exit_date,
			source_of_funds, estimated_amount_to_convert, monthly_income_range,
			passport_photo_page, visa_page, selfie, proof_of_address,
			status, submitted_at
		)
		VALUES (
			$1,
			$2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13, $14,
			$15, $16, $17,
			$18, $19, $20, $21,
			$22, now()
		)
		ON CONFLICT (user_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			middle_name = EXCLUDED.middle_name,
			last_name = EXCLUDED.last_name,
			date_of_birth = EXCLUDED.date_of_birth,
			nationality = EXCLUDED.nationality,
			passport_number = EXCLUDED.passport_number,
			passport_issue_place = EXCLUDED.passport_issue_place,
			passport_issue_date = EXCLUDED.passport_issue_date,
			passport_expiry_date = EXCLUDED.passport_expiry_date,
			visa_type = EXCLUDED.visa_type,
			visa_issue_date = EXCLUDED.visa_issue_date,
			visa_expiry_date = EXCLUDED.visa_expiry_date,
			expected_exit_date = EXCLUDED.expected_exit_date,
			source_of_funds = EXCLUDED.source_of_funds,
			estimated_amount_to_convert = EXCLUDED.estimated_amount_to_convert,
			monthly_income_range = EXCLUDED.monthly_income_range,
			passport_photo_page = EXCLUDED.passport_photo_page,
			visa_page = EXCLUDED.visa_page,
			selfie = EXCLUDED.selfie,
			proof_of_address = EXCLUDED.proof_of_address,
			status = EXCLUDED.status,
			submitted_at = now(),
			reviewed_at = NULL,
			reviewer_id = NULL
		RETURNING id`

	err = tx.QueryRowContext(ctx, query,
		record.UserID,
		record.FirstName,
		record.MiddleName,
		record.LastName,
		record.DateOfBirth,
		record.Nationality,
		record.PassportNumber,
		record.PassportIssuePlace,
		record.PassportIssueDate,
		record.PassportExpiryDate,
		record.VisaType,
		record.VisaIssueDate,
		record.VisaExpiryDate,
		record.ExpectedExitDate,
		record.SourceOfFunds,
		record.EstimatedAmountToConvert,
		record.MonthlyIncomeRange,
		record.PassportPhotoPage,
		record.VisaPage,
		record.Selfie,
		record.ProofOfAddress,
		KycStatusPending,
	).Scan(&id)
	if err != nil {
		return "", err
	}

	_, err = tx.ExecContext(ctx, `UPDATE users SET kyc_verified = false WHERE id = $1`, record.UserID)
	if err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	return id, nil
}

func (repo *KycRepositoryImpl) GetOne(id string) (*models.KYCRecord, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var record models.KYCRecord

	query := `SELECT * FROM kyc_records WHERE id = $1`

	err := repo.db.GetContext(ctx, &record, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &record, true, err
}

func (repo *KycRepositoryImpl) GetByUserID(userID string) (*models.KYCRecord, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var record models.KYCRecord

	query := `SELECT * FROM kyc_records WHERE user_id = $1`

	err := repo.db.GetContext(ctx, &record, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &record, true, err
}

// Decide records an approve/reject outcome and mirrors it onto the owner's
// kyc_verified flag. The record row is locked for the duration of the
// transaction so a decision cannot interleave with a resubmission; nothing
// is mutated unless every step succeeds.
func (repo *KycRepositoryImpl) Decide(id, decision, reviewerID string) (*models.KYCRecord, bool, error) {
	if decision != KycStatusApproved && decision != KycStatusRejected {
		return nil, false, ErrInvalidDecision
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	var userID string
	err = tx.QueryRowContext(ctx, `SELECT user_id FROM kyc_records WHERE id = $1 FOR UPDATE`, id).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var record models.KYCRecord
	query := `
		UPDATE kyc_records
		SET status = $1, reviewed_at = $2, reviewer_id = $3
		WHERE id = $4
		RETURNING *`

	err = tx.GetContext(ctx, &record, query, decision, time.Now(), reviewerID, id)
	if err != nil {
		return nil, false, err
	}

	_, err = tx.ExecContext(ctx, `UPDATE users SET kyc_verified = $1 WHERE id = $2`,
		decision == KycStatusApproved, userID)
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	return &record, true, nil
}
