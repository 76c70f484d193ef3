package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/paymentintent"

	"github.com/yatrapay/yatrapay/internal/cache"
	"github.com/yatrapay/yatrapay/internal/config"
	"github.com/yatrapay/yatrapay/internal/context"
	"github.com/yatrapay/yatrapay/internal/errHandler"
	"github.com/yatrapay/yatrapay/internal/helper"
	"github.com/yatrapay/yatrapay/internal/models"
	"github.com/yatrapay/yatrapay/internal/repository"
	"github.com/yatrapay/yatrapay/internal/request"
	"github.com/yatrapay/yatrapay/internal/response"
	"github.com/yatrapay/yatrapay/internal/validator"
)

// ExchangeRateCacheKey holds the current USD to NPR rate. The cached value
// wins; config supplies the fallback when the cache is cold.
const ExchangeRateCacheKey = "exchange_rate:usd_npr"

const exchangeRateCacheTTL = 1 * time.Hour

var ErrWalletNotFound = errors.New("wallet not found")

type WalletResponseData struct {
	ID            string    `json:"id"`
	AccountNumber string    `json:"account_number"`
	Balance       string    `json:"balance"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type WalletHandler struct {
	WalletRepo      repository.WalletRepository
	TransactionRepo repository.TransactionRepository
	ActivityRepo    repository.ActivityRepository
	Cache           cache.Store

	Config     *config.Config
	ErrHandler *errHandler.ErrorRepository
	Helper     *helper.HelperRepository
}

func NewWalletHandler(handler *WalletHandler) *WalletHandler {
	return &WalletHandler{
		WalletRepo:      handler.WalletRepo,
		TransactionRepo: handler.TransactionRepo,
		ActivityRepo:    handler.ActivityRepo,
		Cache:           handler.Cache,
		Config:          handler.Config,
		ErrHandler:      handler.ErrHandler,
		Helper:          handler.Helper,
	}
}

// exchangeRate resolves the USD to NPR rate, cache first. A cold cache
// falls back to the configured rate and warms the cache for the next call.
func (h *WalletHandler) exchangeRate() (decimal.Decimal, error) {
	cached, err := h.Cache.Get(ExchangeRateCacheKey)
	if err == nil {
		rate, parseErr := decimal.NewFromString(cached)
		if parseErr == nil {
			return rate, nil
		}
	} else if !errors.Is(err, cache.Nil) {
		log.Printf("Error reading exchange rate from cache: %v", err)
	}

	rate, err := decimal.NewFromString(h.Config.Exchange.UsdToNpr)
	if err != nil {
		return decimal.Zero, err
	}

	if err := h.Cache.Set(ExchangeRateCacheKey, rate.String(), exchangeRateCacheTTL); err != nil {
		log.Printf("Error caching exchange rate: %v", err)
	}

	return rate, nil
}

// serviceFee is a flat percentage of the converted NPR amount.
func (h *WalletHandler) serviceFee(amountNPR decimal.Decimal) decimal.Decimal {
	percent := decimal.NewFromInt(h.Config.Exchange.ServiceFeePercent)
	return amountNPR.Mul(percent).Div(decimal.NewFromInt(100)).Round(2)
}

// HandleLoadMoney charges a card in USD through Stripe, converts the amount
// to NPR at the current rate, deducts the service fee and credits the
// caller's wallet. Only KYC-verified users can load money.
func (h *WalletHandler) HandleLoadMoney(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	if !user.KycVerified {
		message := "KYC not verified. Complete verification before loading money"
		err := response.JSONErrorResponse(w, nil, message, http.StatusForbidden, nil)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
		}
		return
	}

	var input struct {
		AmountUSD       string              `json:"amount_usd"`
		PaymentMethodID string              `json:"payment_method_id"`
		Validator       validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.AmountUSD), "Amount is required")
	input.Validator.Check(validator.NotBlank(input.PaymentMethodID), "Payment method is required")

	amountUSD, err := decimal.NewFromString(input.AmountUSD)
	if err != nil {
		input.Validator.AddError("Amount must be a valid number")
	} else {
		input.Validator.Check(amountUSD.IsPositive(), "Amount must be greater than zero")
	}

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	wallet, found, err := h.WalletRepo.GetByUserID(user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found {
		h.ErrHandler.ServerError(w, r, ErrWalletNotFound)
		return
	}

	rate, err := h.exchangeRate()
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	amountNPR := amountUSD.Mul(rate).Round(2)
	fee := h.serviceFee(amountNPR)
	creditAmount := amountNPR.Sub(fee)

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amountUSD.Mul(decimal.NewFromInt(100)).IntPart()),
		Currency:      stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethod: stripe.String(input.PaymentMethodID),
		Confirm:       stripe.Bool(true),
		ReceiptEmail:  stripe.String(user.Email),
		Description:   stripe.String(fmt.Sprintf("Wallet load for account %s", wallet.AccountNumber)),
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		message := "Payment could not be completed"
		err = response.JSONErrorResponse(w, err.Error(), message, http.StatusUnprocessableEntity, nil)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
		}
		return
	}

	newBalance, err := h.WalletRepo.Credit(wallet.ID, creditAmount)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	transaction := &models.Transaction{
		UserID:          user.ID,
		Type:            repository.TransactionTypeLoad,
		ReferenceNumber: uuid.NewString(),
		AmountForeign:   decimal.NewNullDecimal(amountUSD),
		AmountNPR:       creditAmount,
		ServiceFee:      fee,
	}
	transaction.Currency.String = string(stripe.CurrencyUSD)
	transaction.Currency.Valid = true

	transactionID, err := h.TransactionRepo.Insert(transaction)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		_, err := h.ActivityRepo.Insert(&models.ActivityLog{
			UserID:      user.ID,
			Entity:      repository.ActivityLogWalletEntity,
			EntityId:    wallet.ID,
			Description: WalletActivityLogLoadDescription,
		})
		if err != nil {
			log.Printf("Error logging wallet load action: %v", err)
			return err
		}

		return nil
	})

	data := map[string]any{
		"transaction_id":   transactionID,
		"reference_number": transaction.ReferenceNumber,
		"payment_intent":   intent.ID,
		"amount_usd":       amountUSD.StringFixed(2),
		"exchange_rate":    rate.String(),
		"service_fee":      fee.StringFixed(2),
		"amount_npr":       creditAmount.StringFixed(2),
		"balance":          newBalance.StringFixed(2),
	}

	message := "Wallet loaded successfully"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleCreateExpense debits the caller's wallet for a local purchase.
// Only KYC-verified users can spend, and the balance can never go
// negative.
func (h *WalletHandler) HandleCreateExpense(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	if !user.KycVerified {
		message := "KYC not verified. Complete verification before making payments"
		err := response.JSONErrorResponse(w, nil, message, http.StatusForbidden, nil)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
		}
		return
	}

	var input struct {
		AmountNPR   string              `json:"amount_npr"`
		VendorID    string              `json:"vendor_id"`
		Description string              `json:"description"`
		Validator   validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.AmountNPR), "Amount is required")
	input.Validator.Check(validator.NotBlank(input.VendorID), "Vendor is required")

	amountNPR, err := decimal.NewFromString(input.AmountNPR)
	if err != nil {
		input.Validator.AddError("Amount must be a valid number")
	} else {
		input.Validator.Check(amountNPR.IsPositive(), "Amount must be greater than zero")
	}

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	wallet, found, err := h.WalletRepo.GetByUserID(user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found {
		h.ErrHandler.ServerError(w, r, ErrWalletNotFound)
		return
	}

	newBalance, err := h.WalletRepo.Debit(wallet.ID, amountNPR)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			message := "Insufficient wallet balance"
			err = response.JSONErrorResponse(w, nil, message, http.StatusUnprocessableEntity, nil)
			if err != nil {
				h.ErrHandler.ServerError(w, r, err)
			}
			return
		}
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	transaction := &models.Transaction{
		UserID:          user.ID,
		Type:            repository.TransactionTypeExpense,
		ReferenceNumber: uuid.NewString(),
		AmountNPR:       amountNPR,
	}
	transaction.VendorID.String = input.VendorID
	transaction.VendorID.Valid = true
	if input.Description != "" {
		transaction.Description.String = input.Description
		transaction.Description.Valid = true
	}

	transactionID, err := h.TransactionRepo.Insert(transaction)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		_, err := h.ActivityRepo.Insert(&models.ActivityLog{
			UserID:      user.ID,
			Entity:      repository.ActivityLogWalletEntity,
			EntityId:    wallet.ID,
			Description: WalletActivityLogExpenseDescription,
		})
		if err != nil {
			log.Printf("Error logging expense action: %v", err)
			return err
		}

		return nil
	})

	data := map[string]any{
		"transaction_id":   transactionID,
		"reference_number": transaction.ReferenceNumber,
		"amount_npr":       amountNPR.StringFixed(2),
		"balance":          newBalance.StringFixed(2),
	}

	message := "Expense recorded successfully"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleWalletDetails returns the caller's own wallet.
func (h *WalletHandler) HandleWalletDetails(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	wallet, found, err := h.WalletRepo.GetByUserID(user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found {
		h.ErrHandler.NotFound(w, r)
		return
	}

	data := &WalletResponseData{
		ID:            wallet.ID,
		AccountNumber: wallet.AccountNumber,
		Balance:       wallet.BalanceNPR.StringFixed(2),
		Currency:      wallet.Currency,
		Status:        wallet.Status,
		CreatedAt:     wallet.CreatedAt,
	}

	message := "Data retrieved successfully"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
