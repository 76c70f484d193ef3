package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/yatrapay/yatrapay/internal/models"
)

type MockKycRepo struct {
	mock.Mock
}

func (m *MockKycRepo) Upsert(record *models.KYCRecord) (string, error) {
	args := m.Called(record)
	return args.String(0), args.Error(1)
}

func (m *MockKycRepo) GetOne(id string) (*models.KYCRecord, bool, error) {
	args := m.Called(id)
	record, _ := args.Get(0).(*models.KYCRecord)
	return record, args.Bool(1), args.Error(2)
}

func (m *MockKycRepo) GetByUserID(userID string) (*models.KYCRecord, bool, error) {
	args := m.Called(userID)
	record, _ := args.Get(0).(*models.KYCRecord)
	return record, args.Bool(1), args.Error(2)
}

func (m *MockKycRepo) Decide(id, decision, reviewerID string) (*models.KYCRecord, bool, error) {
	args := m.Called(id, decision, reviewerID)
	record, _ := args.Get(0).(*models.KYCRecord)
	return record, args.Bool(1), args.Error(2)
}
