package middleware

import (
	"net/http"

	"github.com/Ajju0211/full-stack-gemini-clone/internal/logger"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/reqctx"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/utils"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/utils/helpers"

	"go.uber.org/zap"
)

// TokenVerifier проверяет токен сессии и возвращает id пользователя.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// VerifyToken читает cookie "token", проверяет её и кладёт id пользователя в контекст.
func VerifyToken(tokens TokenVerifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(utils.SessionCookieName)
		if err != nil || cookie.Value == "" {
			logger.WithCtx(r.Context()).Warn("VerifyToken: отсутствует cookie сессии")
			helpers.Error(w, http.StatusUnauthorized, "Unauthorized - no token provided")
			return
		}

		userID, err := tokens.Verify(cookie.Value)
		if err != nil {
			logger.WithCtx(r.Context()).Warn("VerifyToken: неверный или просроченный токен", zap.Error(err))
			helpers.Error(w, http.StatusUnauthorized, "Unauthorized - invalid token")
			return
		}

		ctx := reqctx.WithUserID(r.Context(), userID)
		logger.WithCtx(ctx).Debug("VerifyToken: токен валиден")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
