package helper

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
)

type HelperRepository struct {
	baseUrl *string
	WG      *sync.WaitGroup
	logger  *slog.Logger
}

func New(baseUrl *string, wg *sync.WaitGroup, logger *slog.Logger) *HelperRepository {
	return &HelperRepository{
		baseUrl: baseUrl,
		WG:      wg,
		logger:  logger,
	}
}

func (h *HelperRepository) NewEmailData() map[string]any {
	data := map[string]any{
		"BaseURL": h.baseUrl,
	}

	return data
}

// BackgroundTask runs fn on its own goroutine with panic recovery, so a
// side effect (email, audit log) can never take a request handler down.
func (h *HelperRepository) BackgroundTask(r *http.Request, fn func() error) {
	h.WG.Add(1)

	go func() {
		defer h.WG.Done()

		defer func() {
			err := recover()
			if err != nil {
				h.logger.Error(fmt.Sprintf("background task panic: %v", err))
			}
		}()

		err := fn()
		if err != nil {
			h.logger.Error("background task failed", "error", err)
		}
	}()
}
