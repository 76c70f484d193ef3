package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/yatrapay/yatrapay/internal/models"
)

type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Insert(transaction *models.Transaction) (string, error) {
	args := m.Called(transaction)
	return args.String(0), args.Error(1)
}

func (m *MockTransactionRepo) GetAllByUserID(userID string, limit, offset int) ([]models.Transaction, error) {
	args := m.Called(userID, limit, offset)
	transactions, _ := args.Get(0).([]models.Transaction)
	return transactions, args.Error(1)
}
