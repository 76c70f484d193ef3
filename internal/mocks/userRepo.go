package mocks

import (
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
	"github.com/yatrapay/yatrapay/internal/models"
)

// MockUserRepo implements UserRepository but only mocks the methods that
// tests assert on.
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) CheckIfPhoneNumberExist(phoneNumber string) (bool, error) {
	return false, nil
}

func (m *MockUserRepo) Insert(user *models.User, tx *sqlx.Tx) (string, error) {
	return "", nil
}

func (m *MockUserRepo) GetOne(id string) (*models.User, bool, error) {
	args := m.Called(id)
	return args.Get(0).(*models.User), args.Bool(1), args.Error(2)
}

func (m *MockUserRepo) GetByEmail(email string) (*models.User, bool, error) {
	args := m.Called(email)
	return args.Get(0).(*models.User), args.Bool(1), args.Error(2)
}

func (m *MockUserRepo) Verify(id string) error {
	return nil
}

func (m *MockUserRepo) UpdatePassword(id, password string) error {
	return nil
}

func (m *MockUserRepo) SetKycVerified(id string, verified bool) error {
	args := m.Called(id, verified)
	return args.Error(0)
}

func (m *MockUserRepo) Lock(id string) error {
	return nil
}
