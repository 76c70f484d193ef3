package mocks

import (
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/yatrapay/yatrapay/internal/models"
)

type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) Insert(wallet *models.Wallet, tx *sqlx.Tx) (string, error) {
	return "", nil
}

func (m *MockWalletRepo) GetOne(id string) (*models.Wallet, bool, error) {
	args := m.Called(id)
	wallet, _ := args.Get(0).(*models.Wallet)
	return wallet, args.Bool(1), args.Error(2)
}

func (m *MockWalletRepo) GetByUserID(userID string) (*models.Wallet, bool, error) {
	args := m.Called(userID)
	wallet, _ := args.Get(0).(*models.Wallet)
	return wallet, args.Bool(1), args.Error(2)
}

func (m *MockWalletRepo) FindByAccountNumber(accountNumber string) (*models.Wallet, bool, error) {
	return nil, false, nil
}

func (m *MockWalletRepo) Credit(walletID string, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(walletID, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockWalletRepo) Debit(walletID string, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(walletID, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
