package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/yatrapay/yatrapay/internal/models"
)

type UserRepository interface {
	CheckIfPhoneNumberExist(phoneNumber string) (bool, error)
	Insert(user *models.User, tx *sqlx.Tx) (string, error)
	GetOne(id string) (*models.User, bool, error)
	GetByEmail(email string) (*models.User, bool, error)
	Verify(id string) error
	UpdatePassword(id, password string) error
	SetKycVerified(id string, verified bool) error
	Lock(id string) error
}

const (
	// UserAccountPendingStatus is the default status after registration,
	// before the email verification step completes.
	UserAccountPendingStatus = "pending"

	// UserAccountActiveStatus indicates a fully functional account.
	UserAccountActiveStatus = "active"

	// UserAccountLockedStatus is set after repeated failed logins or by
	// administrative action. A locked account cannot authenticate.
	UserAccountLockedStatus = "locked"

	UserRoleUser  = "user"
	UserRoleAdmin = "admin"
)

type UserRepositoryImpl struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (repo *UserRepositoryImpl) Insert(user *models.User, tx *sqlx.Tx) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	role := user.Role
	if role == "" {
		role = UserRoleUser
	}

	var id string
	query := `
		INSERT INTO users (first_name, last_name, phone_number, email, nationality, role, hashed_password)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	if tx != nil {
		err := tx.QueryRowContext(ctx, query,
			user.FirstName,
			user.LastName,
			user.PhoneNumber,
			user.Email,
			user.Nationality,
			role,
			user.HashedPassword,
		).Scan(&id)
		if err != nil {
			return "", err
		}
	} else {
		err := repo.db.GetContext(ctx, &id, query,
			user.FirstName,
			user.LastName,
			user.PhoneNumber,
			user.Email,
			user.Nationality,
			role,
			user.HashedPassword,
		)
		if err != nil {
			return "", err
		}
	}

	return id, nil
}

func (repo *UserRepositoryImpl) GetOne(id string) (*models.User, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var user models.User

	query := `SELECT * FROM users WHERE id = $1 AND deleted_at IS NULL`

	err := repo.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &user, true, err
}

func (repo *UserRepositoryImpl) GetByEmail(email string) (*models.User, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var user models.User

	query := `SELECT * FROM users WHERE email = $1 AND deleted_at IS NULL`

	err := repo.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &user, true, err
}

func (repo *UserRepositoryImpl) CheckIfPhoneNumberExist(phoneNumber string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE phone_number = $1)`

	err := repo.db.GetContext(ctx, &exists, query, phoneNumber)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (repo *UserRepositoryImpl) Verify(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE users SET status = $1, verified_at = $2 WHERE id = $3`

	_, err := repo.db.ExecContext(ctx, query, UserAccountActiveStatus, time.Now(), id)
	return err
}

func (repo *UserRepositoryImpl) UpdatePassword(id, password string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE users SET hashed_password = $1 WHERE id = $2`

	_, err := repo.db.ExecContext(ctx, query, password, id)
	return err
}

// SetKycVerified flips the flag that gates wallet funding. It is set true
// only by an approved review, and reset to false on every resubmission.
func (repo *UserRepositoryImpl) SetKycVerified(id string, verified bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE users SET kyc_verified = $1 WHERE id = $2`

	_, err := repo.db.ExecContext(ctx, query, verified, id)
	return err
}

func (repo *UserRepositoryImpl) Lock(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE users SET status = $1 WHERE id = $2`

	_, err := repo.db.ExecContext(ctx, query, UserAccountLockedStatus, id)
	return err
}
