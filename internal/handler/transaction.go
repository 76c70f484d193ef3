package handler

import (
	"net/http"
	"time"

	"github.com/yatrapay/yatrapay/internal/context"
	"github.com/yatrapay/yatrapay/internal/errHandler"
	"github.com/yatrapay/yatrapay/internal/models"
	"github.com/yatrapay/yatrapay/internal/repository"
	"github.com/yatrapay/yatrapay/internal/response"
)

type TransactionResponseData struct {
	ID              string  `json:"id"`
	Type            string  `json:"type"`
	ReferenceNumber string  `json:"reference_number"`
	AmountForeign   *string `json:"amount_foreign"`
	Currency        *string `json:"currency"`
	AmountNPR       string  `json:"amount_npr"`
	ServiceFee      string  `json:"service_fee"`
	VendorID        *string `json:"vendor_id"`
	Description     *string `json:"description"`
	CreatedAt       string  `json:"created_at"`
}

type TransactionHandler struct {
	TransactionRepo repository.TransactionRepository
	ErrHandler      *errHandler.ErrorRepository
}

func NewTransactionHandler(handler *TransactionHandler) *TransactionHandler {
	return &TransactionHandler{
		TransactionRepo: handler.TransactionRepo,
		ErrHandler:      handler.ErrHandler,
	}
}

func newTransactionResponseData(transaction *models.Transaction) *TransactionResponseData {
	data := &TransactionResponseData{
		ID:              transaction.ID,
		Type:            transaction.Type,
		ReferenceNumber: transaction.ReferenceNumber,
		AmountNPR:       transaction.AmountNPR.StringFixed(2),
		ServiceFee:      transaction.ServiceFee.StringFixed(2),
		CreatedAt:       transaction.CreatedAt.Format(time.RFC3339),
	}

	if transaction.AmountForeign.Valid {
		amount := transaction.AmountForeign.Decimal.StringFixed(2)
		data.AmountForeign = &amount
	}
	if transaction.Currency.Valid {
		currency := transaction.Currency.String
		data.Currency = &currency
	}
	if transaction.VendorID.Valid {
		vendorID := transaction.VendorID.String
		data.VendorID = &vendorID
	}
	if transaction.Description.Valid {
		description := transaction.Description.String
		data.Description = &description
	}

	return data
}

// HandleTransactionHistory lists the caller's transactions, newest first,
// with limit/page query parameters.
func (h *TransactionHandler) HandleTransactionHistory(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	queryValues := retrieveUrlQueryValues(r)

	transactions, err := h.TransactionRepo.GetAllByUserID(user.ID, queryValues.Limit, queryValues.Offset)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := make([]*TransactionResponseData, 0, len(transactions))
	for i := range transactions {
		data = append(data, newTransactionResponseData(&transactions[i]))
	}

	message := "Data retrieved successfully"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
