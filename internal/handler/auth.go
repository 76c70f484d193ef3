package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/yatrapay/yatrapay/internal/config"
	"github.com/yatrapay/yatrapay/internal/errHandler"
	"github.com/yatrapay/yatrapay/internal/helper"
	"github.com/yatrapay/yatrapay/internal/models"
	"github.com/yatrapay/yatrapay/internal/repository"
	"github.com/yatrapay/yatrapay/internal/request"
	"github.com/yatrapay/yatrapay/internal/response"
	"github.com/yatrapay/yatrapay/internal/smtp"
	"github.com/yatrapay/yatrapay/internal/validator"

	"github.com/cradoe/gopass"
	"github.com/jmoiron/sqlx"
	"github.com/pascaldekloe/jwt"
)

type AuthHandler struct {
	DB           repository.Database
	UserRepo     repository.UserRepository
	WalletRepo   repository.WalletRepository
	ActivityRepo repository.ActivityRepository

	Config     *config.Config
	ErrHandler *errHandler.ErrorRepository
	Helper     *helper.HelperRepository
	Mailer     smtp.MailerInterface
}

func NewAuthHandler(handler *AuthHandler) *AuthHandler {
	return &AuthHandler{
		DB:           handler.DB,
		UserRepo:     handler.UserRepo,
		WalletRepo:   handler.WalletRepo,
		ActivityRepo: handler.ActivityRepo,
		Config:       handler.Config,
		ErrHandler:   handler.ErrHandler,
		Helper:       handler.Helper,
		Mailer:       handler.Mailer,
	}
}

// Registration validates the input, checks the unique fields, then inserts
// the user and their NPR wallet inside one transaction. Failure at any
// point rolls both back.
func (h *AuthHandler) HandleAuthRegister(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email       string              `json:"email"`
		Password    string              `json:"password"`
		FirstName   string              `json:"first_name"`
		LastName    string              `json:"last_name"`
		PhoneNumber string              `json:"phone_number"`
		Nationality string              `json:"nationality"`
		Validator   validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	// password strength is checked first; a weak password short-circuits
	// before the other fields are looked at
	_, errs := gopass.Validate(input.Password)
	if errs != nil {
		h.ErrHandler.FailedValidation(w, r, errs)
		return
	}

	_, found, err := h.UserRepo.GetByEmail(input.Email)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.Email), "Email is required")
	input.Validator.Check(validator.IsEmail(input.Email), "Must be a valid email address")
	input.Validator.Check(!found, "Email is already in use")

	input.Validator.Check(validator.NotBlank(input.FirstName), "First name is required")
	input.Validator.Check(len(input.FirstName) >= 2, "First name is too short")

	input.Validator.Check(validator.NotBlank(input.LastName), "Last name is required")
	input.Validator.Check(len(input.LastName) >= 2, "Last name is too short")

	input.Validator.Check(validator.NotBlank(input.PhoneNumber), "Phone number is required")
	input.Validator.Check(validator.Matches(input.PhoneNumber, validator.RgxPhoneNumber), "Phone number must be in international format")

	found, err = h.UserRepo.CheckIfPhoneNumberExist(input.PhoneNumber)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	input.Validator.Check(!found, "Phone number has been registered")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	hashedPassword, err := gopass.Hash(input.Password)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	tx, err := h.DB.BeginTx(r.Context())
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	createdUser := &models.User{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		PhoneNumber:    input.PhoneNumber,
		HashedPassword: hashedPassword,
	}
	if input.Nationality != "" {
		createdUser.Nationality.String = input.Nationality
		createdUser.Nationality.Valid = true
	}

	userID, err := h.UserRepo.Insert(createdUser, tx)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	wallet, err := h.generateWallet(userID, createdUser.PhoneNumber, tx)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if err := tx.Commit(); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		_, err := h.ActivityRepo.Insert(&models.ActivityLog{
			UserID:      userID,
			Entity:      repository.ActivityLogUserEntity,
			EntityId:    userID,
			Description: UserActivityLogRegistrationDescription,
		})
		if err != nil {
			log.Printf("Error logging user registration action: %v", err)
			return err
		}

		return nil
	})

	h.Helper.BackgroundTask(r, func() error {
		emailData := h.Helper.NewEmailData()
		emailData["Name"] = createdUser.FirstName + " " + createdUser.LastName
		emailData["AccountNumber"] = wallet.AccountNumber

		err := h.Mailer.Send(createdUser.Email, emailData, "welcome.tmpl")
		if err != nil {
			log.Printf("Error sending welcome email: %v", err)
			return err
		}

		return nil
	})

	message := "Account created successfully"
	err = response.JSONCreatedResponse(w, nil, message)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// generateWallet derives the account number from the last ten digits of
// the phone number, which registration has already established as unique.
func (h *AuthHandler) generateWallet(userID, phoneNumber string, tx *sqlx.Tx) (*models.Wallet, error) {
	accountNumber := phoneNumber
	if len(accountNumber) > 10 {
		accountNumber = accountNumber[len(accountNumber)-10:]
	}

	userWallet := &models.Wallet{
		UserID:        userID,
		AccountNumber: accountNumber,
	}

	_, err := h.WalletRepo.Insert(userWallet, tx)
	if err != nil {
		return nil, err
	}
	return userWallet, nil
}

func (h *AuthHandler) HandleAuthLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email     string              `json:"email"`
		Password  string              `json:"password"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	user, found, err := h.UserRepo.GetByEmail(input.Email)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.Email), "Email is required")
	input.Validator.Check(validator.IsEmail(input.Email), "Must be a valid email address")
	input.Validator.Check(found, "Incorrect email/password")

	if found {
		passwordMatches, err := gopass.ComparePasswordAndHash(input.Password, user.HashedPassword)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}

		input.Validator.Check(validator.NotBlank(input.Password), "Password is required")
		input.Validator.Check(passwordMatches, "Incorrect email/password")

		if !passwordMatches {
			h.Helper.BackgroundTask(r, func() error {
				_, err := h.ActivityRepo.Insert(&models.ActivityLog{
					UserID:      user.ID,
					Entity:      repository.ActivityLogUserEntity,
					EntityId:    user.ID,
					Description: UserActivityLogFailedLoginDescription,
				})
				if err != nil {
					log.Printf("Error logging failed login action: %v", err)
					return err
				}

				return nil
			})

			// lock the account after 3 consecutive failed attempts; two
			// are already recorded before this one
			count := h.ActivityRepo.CountConsecutiveFailedLoginAttempts(user.ID, UserActivityLogFailedLoginDescription)
			if count >= 2 {
				h.Helper.BackgroundTask(r, func() error {
					err := h.UserRepo.Lock(user.ID)
					if err != nil {
						log.Printf("Error locking account after failed logins: %v", err)
						return err
					}

					return nil
				})

				h.Helper.BackgroundTask(r, func() error {
					_, err := h.ActivityRepo.Insert(&models.ActivityLog{
						UserID:      user.ID,
						Entity:      repository.ActivityLogUserEntity,
						EntityId:    user.ID,
						Description: UserActivityLogLockedAccountDescription,
					})
					if err != nil {
						log.Printf("Error logging account lock action: %v", err)
						return err
					}

					return nil
				})

				h.ErrHandler.FailedValidation(w, r, []string{"Account has been locked. Please contact support"})
				return
			}
		}
	}

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	if user.Status == repository.UserAccountLockedStatus {
		message := "Account has been locked. Please contact support"
		err = response.JSONErrorResponse(w, nil, message, http.StatusForbidden, nil)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
		}
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		_, err := h.ActivityRepo.Insert(&models.ActivityLog{
			UserID:      user.ID,
			Entity:      repository.ActivityLogUserEntity,
			EntityId:    user.ID,
			Description: UserActivityLogLoginDescription,
		})
		if err != nil {
			log.Printf("Error logging successful login action: %v", err)
			return err
		}

		return nil
	})

	var claims jwt.Claims
	claims.Subject = user.ID

	expiry := time.Now().Add(24 * time.Hour)
	claims.Issued = jwt.NewNumericTime(time.Now())
	claims.NotBefore = jwt.NewNumericTime(time.Now())
	claims.Expires = jwt.NewNumericTime(expiry)

	claims.Issuer = h.Config.BaseURL
	claims.Audiences = []string{h.Config.BaseURL}

	jwtBytes, err := claims.HMACSign(jwt.HS256, []byte(h.Config.Jwt.SecretKey))
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := map[string]any{
		"auth_token":   string(jwtBytes),
		"token_expiry": expiry.Format(time.RFC3339),
		"user": map[string]any{
			"id":           user.ID,
			"first_name":   user.FirstName,
			"last_name":    user.LastName,
			"email":        user.Email,
			"role":         user.Role,
			"kyc_verified": user.KycVerified,
		},
	}
	message := "Login successful"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
