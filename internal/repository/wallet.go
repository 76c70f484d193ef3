package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/yatrapay/yatrapay/internal/models"
)

const (
	WalletActiveStatus = "active"
	WalletOnHoldStatus = "on-hold"
)

var ErrInsufficientBalance = errors.New("insufficient wallet balance")

type WalletRepository interface {
	Insert(wallet *models.Wallet, tx *sqlx.Tx) (string, error)
	GetOne(id string) (*models.Wallet, bool, error)
	GetByUserID(userID string) (*models.Wallet, bool, error)
	FindByAccountNumber(accountNumber string) (*models.Wallet, bool, error)
	Credit(walletID string, amount decimal.Decimal) (decimal.Decimal, error)
	Debit(walletID string, amount decimal.Decimal) (decimal.Decimal, error)
}

type WalletRepositoryImpl struct {
	db *sqlx.DB
}

func NewWalletRepository(db *sqlx.DB) WalletRepository {
	return &WalletRepositoryImpl{db: db}
}

func (repo *WalletRepositoryImpl) Insert(wallet *models.Wallet, tx *sqlx.Tx) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var id string

	query := `
		INSERT INTO wallets (user_id, account_number)
		VALUES ($1, $2)
		RETURNING id`

	if tx != nil {
		err := tx.QueryRowContext(ctx, query,
			wallet.UserID,
			wallet.AccountNumber,
		).Scan(&id)
		if err != nil {
			return "", err
		}
	} else {
		err := repo.db.GetContext(ctx, &id, query,
			wallet.UserID,
			wallet.AccountNumber,
		)
		if err != nil {
			return "", err
		}
	}

	return id, nil
}

func (repo *WalletRepositoryImpl) GetOne(id string) (*models.Wallet, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var wallet models.Wallet

	query := `SELECT * FROM wallets WHERE id = $1 AND deleted_at IS NULL`

	err := repo.db.GetContext(ctx, &wallet, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &wallet, true, err
}

func (repo *WalletRepositoryImpl) GetByUserID(userID string) (*models.Wallet, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var wallet models.Wallet

	query := `SELECT * FROM wallets WHERE user_id = $1 AND deleted_at IS NULL`

	err := repo.db.GetContext(ctx, &wallet, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &wallet, true, err
}

func (repo *WalletRepositoryImpl) FindByAccountNumber(accountNumber string) (*models.Wallet, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var wallet models.Wallet

	query := `SELECT * FROM wallets WHERE account_number = $1 AND deleted_at IS NULL`

	err := repo.db.GetContext(ctx, &wallet, query, accountNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &wallet, true, err
}

// Credit adds to the balance atomically and returns the new balance.
func (repo *WalletRepositoryImpl) Credit(walletID string, amount decimal.Decimal) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var balance decimal.Decimal

	query := `
		UPDATE wallets
		SET balance_npr = balance_npr + $1, updated_at = now()
		WHERE id = $2 AND status = $3
		RETURNING balance_npr`

	err := repo.db.GetContext(ctx, &balance, query, amount, walletID, WalletActiveStatus)
	if err != nil {
		return decimal.Zero, err
	}

	return balance, nil
}

// Debit subtracts from the balance only when it covers the amount; the
// guard lives in the statement itself so two debits cannot both pass the
// balance check.
func (repo *WalletRepositoryImpl) Debit(walletID string, amount decimal.Decimal) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var balance decimal.Decimal

	query := `
		UPDATE wallets
		SET balance_npr = balance_npr - $1, updated_at = now()
		WHERE id = $2 AND status = $3 AND balance_npr >= $1
		RETURNING balance_npr`

	err := repo.db.GetContext(ctx, &balance, query, amount, walletID, WalletActiveStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, ErrInsufficientBalance
	}
	if err != nil {
		return decimal.Zero, err
	}

	return balance, nil
}
