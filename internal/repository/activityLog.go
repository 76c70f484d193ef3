package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/yatrapay/yatrapay/internal/models"
)

type ActivityRepository interface {
	Insert(log *models.ActivityLog) (*models.ActivityLog, error)
	CountConsecutiveFailedLoginAttempts(userID, actionDesc string) int
}

const (
	// ActivityLogUserEntity covers account actions on the users table
	ActivityLogUserEntity = "user"

	// ActivityLogKycEntity covers submissions and review decisions on the
	// kyc_records table
	ActivityLogKycEntity = "kyc"

	// ActivityLogWalletEntity covers loads and expenses on the wallets table
	ActivityLogWalletEntity = "wallet"
)

type ActivityRepositoryImpl struct {
	db *sqlx.DB
}

func NewActivityRepository(db *sqlx.DB) ActivityRepository {
	return &ActivityRepositoryImpl{db: db}
}

func (repo *ActivityRepositoryImpl) Insert(log *models.ActivityLog) (*models.ActivityLog, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var entry models.ActivityLog

	query := `
		INSERT INTO activity_logs (user_id, entity, entity_id, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := repo.db.GetContext(ctx, &entry, query,
		log.UserID,
		log.Entity,
		log.EntityId,
		log.Description,
	)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// CountConsecutiveFailedLoginAttempts looks at the most recent account
// activity and counts failures until a non-failure entry. Used to lock the
// account after 3 consecutive failed logins.
func (repo *ActivityRepositoryImpl) CountConsecutiveFailedLoginAttempts(userID, actionDesc string) int {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var descriptions []string

	query := `
		SELECT description
		FROM activity_logs
		WHERE user_id = $1 AND entity = $2
		ORDER BY created_at DESC
		LIMIT 3
	`
	err := repo.db.SelectContext(ctx, &descriptions, query, userID, ActivityLogUserEntity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0
		}
		return 0
	}

	count := 0
	for _, desc := range descriptions {
		if desc == actionDesc {
			count++
		} else {
			break
		}
	}

	return count
}
