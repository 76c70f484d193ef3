package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yatrapay/yatrapay/internal/errHandler"
	"github.com/yatrapay/yatrapay/internal/helper"
	"github.com/yatrapay/yatrapay/internal/mocks"
	"github.com/yatrapay/yatrapay/internal/models"
	"github.com/yatrapay/yatrapay/internal/repository"
)

func newTestWalletHandler(t *testing.T) (*WalletHandler, *mocks.MockWalletRepo, *mocks.MockTransactionRepo, *mocks.MockActivityRepo, *sync.WaitGroup) {
	t.Helper()

	walletRepo := new(mocks.MockWalletRepo)
	transactionRepo := new(mocks.MockTransactionRepo)
	activityRepo := new(mocks.MockActivityRepo)
	mailer := new(mocks.MockMailer)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	baseURL := "http://localhost"
	var wg sync.WaitGroup
	helperRepo := helper.New(&baseURL, &wg, logger)
	errorHandler := errHandler.New("", mailer, logger, helperRepo)

	h := NewWalletHandler(&WalletHandler{
		WalletRepo:      walletRepo,
		TransactionRepo: transactionRepo,
		ActivityRepo:    activityRepo,
		Cache:           mocks.NewMockCache(),
		Config:          mocks.MockConfig,
		ErrHandler:      errorHandler,
		Helper:          helperRepo,
	})

	return h, walletRepo, transactionRepo, activityRepo, &wg
}

func jsonRequest(t *testing.T, method, target string, payload any, user *models.User) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := authenticatedRequest(method, target, bytes.NewReader(body), user)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandleLoadMoney_RequiresVerifiedKYC(t *testing.T) {
	h, walletRepo, _, _, _ := newTestWalletHandler(t)

	user := &models.User{ID: "user-1", KycVerified: false}
	req := jsonRequest(t, "POST", "/wallets/load", map[string]string{
		"amount_usd":        "100",
		"payment_method_id": "pm_123",
	}, user)

	rr := httptest.NewRecorder()
	h.HandleLoadMoney(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
	walletRepo.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything)
}

func TestHandleLoadMoney_RejectsBadAmount(t *testing.T) {
	h, walletRepo, _, _, _ := newTestWalletHandler(t)

	user := &models.User{ID: "user-1", KycVerified: true}
	req := jsonRequest(t, "POST", "/wallets/load", map[string]string{
		"amount_usd":        "-10",
		"payment_method_id": "pm_123",
	}, user)

	rr := httptest.NewRecorder()
	h.HandleLoadMoney(rr, req)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	walletRepo.AssertNotCalled(t, "GetByUserID", mock.Anything)
}

func TestHandleCreateExpense_RequiresVerifiedKYC(t *testing.T) {
	h, walletRepo, _, _, _ := newTestWalletHandler(t)

	user := &models.User{ID: "user-1", KycVerified: false}
	req := jsonRequest(t, "POST", "/wallets/expense", map[string]string{
		"amount_npr": "500",
		"vendor_id":  "vendor-9",
	}, user)

	rr := httptest.NewRecorder()
	h.HandleCreateExpense(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
	walletRepo.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything)
}

func TestHandleCreateExpense_DebitsWallet(t *testing.T) {
	h, walletRepo, transactionRepo, activityRepo, wg := newTestWalletHandler(t)

	wallet := &models.Wallet{ID: "wallet-1", UserID: "user-1", BalanceNPR: decimal.NewFromInt(1000)}
	walletRepo.On("GetByUserID", "user-1").Return(wallet, true, nil)
	walletRepo.On("Debit", "wallet-1", mock.Anything).Return(decimal.NewFromInt(500), nil)
	activityRepo.On("Insert", mock.Anything).Return(&models.ActivityLog{}, nil)

	var stored *models.Transaction
	transactionRepo.On("Insert", mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(0).(*models.Transaction)
	}).Return("txn-1", nil)

	user := &models.User{ID: "user-1", KycVerified: true}
	req := jsonRequest(t, "POST", "/wallets/expense", map[string]string{
		"amount_npr":  "500",
		"vendor_id":   "vendor-9",
		"description": "Hotel deposit",
	}, user)

	rr := httptest.NewRecorder()
	h.HandleCreateExpense(rr, req)
	wg.Wait()

	require.Equal(t, http.StatusOK, rr.Code)

	require.NotNil(t, stored)
	require.Equal(t, repository.TransactionTypeExpense, stored.Type)
	require.Equal(t, "vendor-9", stored.VendorID.String)
	require.NotEmpty(t, stored.ReferenceNumber)

	var response map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	data, ok := response["data"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "500.00", data["balance"])

	walletRepo.AssertExpectations(t)
	transactionRepo.AssertExpectations(t)
}

func TestHandleCreateExpense_InsufficientBalance(t *testing.T) {
	h, walletRepo, transactionRepo, _, _ := newTestWalletHandler(t)

	wallet := &models.Wallet{ID: "wallet-1", UserID: "user-1", BalanceNPR: decimal.NewFromInt(100)}
	walletRepo.On("GetByUserID", "user-1").Return(wallet, true, nil)
	walletRepo.On("Debit", "wallet-1", mock.Anything).Return(decimal.Zero, repository.ErrInsufficientBalance)

	user := &models.User{ID: "user-1", KycVerified: true}
	req := jsonRequest(t, "POST", "/wallets/expense", map[string]string{
		"amount_npr": "500",
		"vendor_id":  "vendor-9",
	}, user)

	rr := httptest.NewRecorder()
	h.HandleCreateExpense(rr, req)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	transactionRepo.AssertNotCalled(t, "Insert", mock.Anything)
}

func TestHandleWalletDetails(t *testing.T) {
	h, walletRepo, _, _, _ := newTestWalletHandler(t)

	wallet := &models.Wallet{
		ID:            "wallet-1",
		UserID:        "user-1",
		AccountNumber: "9800000001",
		BalanceNPR:    decimal.NewFromFloat(1234.5),
		Currency:      "NPR",
		Status:        repository.WalletActiveStatus,
	}
	walletRepo.On("GetByUserID", "user-1").Return(wallet, true, nil)

	req := authenticatedRequest("GET", "/wallets/me", nil, &models.User{ID: "user-1"})
	rr := httptest.NewRecorder()
	h.HandleWalletDetails(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	data, ok := response["data"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "9800000001", data["account_number"])
	require.Equal(t, "1234.50", data["balance"])
}

func TestExchangeRate_CacheWarmsAndWins(t *testing.T) {
	h, _, _, _, _ := newTestWalletHandler(t)

	rate, err := h.exchangeRate()
	require.NoError(t, err)
	require.True(t, rate.Equal(decimal.NewFromInt(130)), "config fallback on a cold cache")

	// the cached value now takes precedence over config
	require.NoError(t, h.Cache.Set(ExchangeRateCacheKey, "135.5", 0))

	rate, err = h.exchangeRate()
	require.NoError(t, err)
	require.True(t, rate.Equal(decimal.RequireFromString("135.5")))
}

func TestServiceFee(t *testing.T) {
	h, _, _, _, _ := newTestWalletHandler(t)

	fee := h.serviceFee(decimal.NewFromInt(13000))
	require.True(t, fee.Equal(decimal.NewFromInt(260)), "2 percent of 13000 is 260, got %s", fee)
}
