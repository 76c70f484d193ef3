package handler

import (
	"net/http"

	"github.com/yatrapay/yatrapay/internal/errHandler"
	"github.com/yatrapay/yatrapay/internal/response"
)

type HealthCheckHandler struct {
	ErrHandler *errHandler.ErrorRepository
}

func NewHealthCheckHandler(err *errHandler.ErrorRepository) *HealthCheckHandler {
	return &HealthCheckHandler{
		ErrHandler: err,
	}
}

func (h *HealthCheckHandler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	message := "Up and grateful"

	err := response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
