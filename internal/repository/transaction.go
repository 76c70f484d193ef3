package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/yatrapay/yatrapay/internal/models"
)

const (
	// TransactionTypeLoad is a wallet top-up: foreign currency converted
	// to NPR after the service fee.
	TransactionTypeLoad = "load"

	// TransactionTypeExpense is an NPR payment to a vendor.
	TransactionTypeExpense = "expense"
)

type TransactionRepository interface {
	Insert(transaction *models.Transaction) (string, error)
	GetAllByUserID(userID string, limit, offset int) ([]models.Transaction, error)
}

type TransactionRepositoryImpl struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) TransactionRepository {
	return &TransactionRepositoryImpl{db: db}
}

func (repo *TransactionRepositoryImpl) Insert(transaction *models.Transaction) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var id string

	query := `
		INSERT INTO transactions (user_id, type, reference_number, amount_foreign, currency, amount_npr, service_fee, vendor_id, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := repo.db.GetContext(ctx, &id, query,
		transaction.UserID,
		transaction.Type,
		transaction.ReferenceNumber,
		transaction.AmountForeign,
		transaction.Currency,
		transaction.AmountNPR,
		transaction.ServiceFee,
		transaction.VendorID,
		transaction.Description,
	)
	if err != nil {
		return "", err
	}

	return id, nil
}

func (repo *TransactionRepositoryImpl) GetAllByUserID(userID string, limit, offset int) ([]models.Transaction, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var transactions []models.Transaction

	query := `
		SELECT * FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	err := repo.db.SelectContext(ctx, &transactions, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return transactions, nil
}
