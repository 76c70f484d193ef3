package handler

import (
	"net/http"
	"time"

	"github.com/yatrapay/yatrapay/internal/context"
	"github.com/yatrapay/yatrapay/internal/errHandler"
	"github.com/yatrapay/yatrapay/internal/response"
)

type UserResponseData struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Nationality string `json:"nationality,omitempty"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	KycVerified bool   `json:"kyc_verified"`
	CreatedAt   string `json:"created_at"`
}

type UserHandler struct {
	ErrHandler *errHandler.ErrorRepository
}

func NewUserHandler(handler *UserHandler) *UserHandler {
	return &UserHandler{
		ErrHandler: handler.ErrHandler,
	}
}

// HandleUserProfile returns the authenticated user's own profile. The
// middleware has already loaded the row, so no extra lookup is needed.
func (h *UserHandler) HandleUserProfile(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	data := &UserResponseData{
		ID:          user.ID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Nationality: user.Nationality.String,
		Role:        user.Role,
		Status:      user.Status,
		KycVerified: user.KycVerified,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
	}

	message := "Data retrieved successfully"
	err := response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
