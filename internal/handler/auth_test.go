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

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yatrapay/yatrapay/internal/errHandler"
	"github.com/yatrapay/yatrapay/internal/helper"
	"github.com/yatrapay/yatrapay/internal/mocks"
	"github.com/yatrapay/yatrapay/internal/models"
	"github.com/yatrapay/yatrapay/internal/repository"
)

func newTestAuthHandler(t *testing.T) (*AuthHandler, *mocks.MockUserRepo, *mocks.MockActivityRepo, *sync.WaitGroup) {
	t.Helper()

	userRepo := new(mocks.MockUserRepo)
	activityRepo := new(mocks.MockActivityRepo)
	mailer := new(mocks.MockMailer)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	baseURL := "http://localhost"
	var wg sync.WaitGroup
	helperRepo := helper.New(&baseURL, &wg, logger)
	errorHandler := errHandler.New("", mailer, logger, helperRepo)

	h := NewAuthHandler(&AuthHandler{
		UserRepo:     userRepo,
		ActivityRepo: activityRepo,
		Config:       mocks.MockConfig,
		ErrHandler:   errorHandler,
		Helper:       helperRepo,
		Mailer:       mailer,
	})

	return h, userRepo, activityRepo, &wg
}

func TestHandleAuthLogin_ValidCredentials(t *testing.T) {
	h, userRepo, activityRepo, wg := newTestAuthHandler(t)

	testUser := &models.User{
		ID:             "123",
		Email:          "test@example.com",
		HashedPassword: "$2a$10$oiIYEECpY/GRNs9Fi7Yh1.o4Dw2fTD26eu5z48KYgXkMuOiWlSvqG",
		Status:         repository.UserAccountActiveStatus,
		Role:           repository.UserRoleUser,
	}

	userRepo.On("GetByEmail", "test@example.com").Return(testUser, true, nil)
	activityRepo.On("Insert", mock.Anything).Return(&models.ActivityLog{}, nil)

	requestBody, _ := json.Marshal(map[string]string{
		"email":    "test@example.com",
		"password": "correctpassword",
	})

	req := httptest.NewRequest("POST", "/auth/login", bytes.NewBuffer(requestBody))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	h.HandleAuthLogin(rr, req)
	wg.Wait()

	require.Equal(t, http.StatusOK, rr.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))

	data, ok := response["data"].(map[string]any)
	require.True(t, ok)
	require.NotEmpty(t, data["auth_token"])
	require.NotEmpty(t, data["token_expiry"])

	userSummary, ok := data["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "123", userSummary["id"])
	require.Equal(t, false, userSummary["kyc_verified"])

	userRepo.AssertExpectations(t)
	activityRepo.AssertExpectations(t)
}

func TestHandleAuthLogin_WrongPasswordRejected(t *testing.T) {
	h, userRepo, activityRepo, wg := newTestAuthHandler(t)

	testUser := &models.User{
		ID:             "123",
		Email:          "test@example.com",
		HashedPassword: "$2a$10$oiIYEECpY/GRNs9Fi7Yh1.o4Dw2fTD26eu5z48KYgXkMuOiWlSvqG",
		Status:         repository.UserAccountActiveStatus,
	}

	userRepo.On("GetByEmail", "test@example.com").Return(testUser, true, nil)
	activityRepo.On("Insert", mock.Anything).Return(&models.ActivityLog{}, nil)

	requestBody, _ := json.Marshal(map[string]string{
		"email":    "test@example.com",
		"password": "wrongpassword",
	})

	req := httptest.NewRequest("POST", "/auth/login", bytes.NewBuffer(requestBody))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	h.HandleAuthLogin(rr, req)
	wg.Wait()

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestHandleAuthLogin_LockedAccountRejected(t *testing.T) {
	h, userRepo, activityRepo, _ := newTestAuthHandler(t)

	testUser := &models.User{
		ID:             "123",
		Email:          "test@example.com",
		HashedPassword: "$2a$10$oiIYEECpY/GRNs9Fi7Yh1.o4Dw2fTD26eu5z48KYgXkMuOiWlSvqG",
		Status:         repository.UserAccountLockedStatus,
	}

	userRepo.On("GetByEmail", "test@example.com").Return(testUser, true, nil)
	activityRepo.On("Insert", mock.Anything).Return(&models.ActivityLog{}, nil)

	requestBody, _ := json.Marshal(map[string]string{
		"email":    "test@example.com",
		"password": "correctpassword",
	})

	req := httptest.NewRequest("POST", "/auth/login", bytes.NewBuffer(requestBody))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	h.HandleAuthLogin(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestHandleAuthLogin_UnknownEmailRejected(t *testing.T) {
	h, userRepo, _, _ := newTestAuthHandler(t)

	userRepo.On("GetByEmail", "nobody@example.com").Return((*models.User)(nil), false, nil)

	requestBody, _ := json.Marshal(map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever",
	})

	req := httptest.NewRequest("POST", "/auth/login", bytes.NewBuffer(requestBody))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	h.HandleAuthLogin(rr, req)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}
