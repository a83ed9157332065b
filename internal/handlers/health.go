package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Ajju0211/full-stack-gemini-clone/internal/logger"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/utils/helpers"

	"go.uber.org/zap"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Health godoc
// @Summary Проверка живости
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /healthz [get]
func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			logger.WithCtx(r.Context()).Warn("healthz: БД недоступна", zap.Error(err))
			helpers.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "db unavailable"})
			return
		}
		helpers.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
