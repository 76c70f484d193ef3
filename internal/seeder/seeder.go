package seeder

import (
	"context"
	"log"

	"github.com/cradoe/gopass"

	"github.com/yatrapay/yatrapay/internal/env"
	"github.com/yatrapay/yatrapay/internal/models"
	"github.com/yatrapay/yatrapay/internal/repository"
)

type Seeder struct {
	DB repository.Database
}

func New(db repository.Database) *Seeder {
	return &Seeder{
		DB: db,
	}
}

func (seeder *Seeder) Run() {
	seeder.seedAdminUser()
}

// seedAdminUser creates the initial compliance reviewer account if it does
// not already exist. Credentials come from the environment so no secret
// lands in the binary.
func (seeder *Seeder) seedAdminUser() {
	email := env.GetString("SEED_ADMIN_EMAIL", "compliance@yatrapay.example")
	password := env.GetString("SEED_ADMIN_PASSWORD", "")
	if password == "" {
		log.Println("SEED_ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	_, found, err := seeder.DB.User().GetByEmail(email)
	if err != nil {
		log.Printf("Error checking for existing admin account: %v", err)
		return
	}
	if found {
		return
	}

	hashedPassword, err := gopass.Hash(password)
	if err != nil {
		log.Printf("Error hashing admin password: %v", err)
		return
	}

	tx, err := seeder.DB.BeginTx(context.Background())
	if err != nil {
		log.Printf("Error starting admin seed transaction: %v", err)
		return
	}

	admin := &models.User{
		FirstName:      "Compliance",
		LastName:       "Reviewer",
		Email:          email,
		PhoneNumber:    env.GetString("SEED_ADMIN_PHONE", "+9779800000000"),
		Role:           repository.UserRoleAdmin,
		HashedPassword: hashedPassword,
	}

	adminID, err := seeder.DB.User().Insert(admin, tx)
	if err != nil {
		tx.Rollback()
		log.Printf("Error inserting admin account: %v", err)
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("Error committing admin seed: %v", err)
		return
	}

	if err := seeder.DB.User().Verify(adminID); err != nil {
		log.Printf("Error verifying admin account: %v", err)
	}

	log.Printf("Seeded admin account %s", email)
}
