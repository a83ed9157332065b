package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Ajju0211/full-stack-gemini-clone/internal/logger"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/models"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/reqctx"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/services"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/utils"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/utils/helpers"

	"go.uber.org/zap"
)

// AuthFlows: сценарии авторизации (*services.AuthService).
type AuthFlows interface {
	Signup(ctx context.Context, email, password, name string) (*models.User, string, error)
	VerifyEmail(ctx context.Context, code string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	CheckAuth(ctx context.Context, userID string) (*models.User, error)
}

type AuthHandler struct {
	auth         AuthFlows
	secureCookie bool
}

func NewAuthHandler(auth AuthFlows, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, secureCookie: secureCookie}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, op string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON в "+op, zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	return true
}

// flowFailed пишет ответ 400 с сообщением ошибки. Все виды ошибок отдаются одним статусом.
func flowFailed(w http.ResponseWriter, r *http.Request, op string, err error) {
	log := logger.WithCtx(r.Context())
	var fe *services.FlowError
	if errors.As(err, &fe) {
		log.Info(op+": отказ", zap.String("reason", fe.Error()))
	} else {
		log.Error(op+": внутренняя ошибка", zap.Error(err))
	}
	helpers.Error(w, http.StatusBadRequest, err.Error())
}

// Signup godoc
// @Summary Регистрация нового пользователя
// @Description Создаёт пользователя, ставит cookie сессии и отправляет код подтверждения на почту
// @Tags auth
// @Accept json
// @Produce json
// @Param input body signupRequest true "Данные регистрации"
// @Success 200 {object} helpers.Response
// @Failure 400 {object} helpers.Response
// @Router /api/auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeJSON(w, r, &req, "Signup") {
		return
	}

	user, token, err := h.auth.Signup(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		flowFailed(w, r, "Signup", err)
		return
	}

	utils.SetTokenCookie(w, token, h.secureCookie)
	helpers.JSON(w, http.StatusOK, helpers.Response{
		Success: true,
		Message: "User created successfully",
		User:    user,
	})
}

// Login godoc
// @Summary Вход по email и паролю
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginRequest true "Email и пароль"
// @Success 200 {object} helpers.Response
// @Failure 400 {object} helpers.Response
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req, "Login") {
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		flowFailed(w, r, "Login", err)
		return
	}

	utils.SetTokenCookie(w, token, h.secureCookie)
	helpers.JSON(w, http.StatusOK, helpers.Response{
		Success: true,
		Message: "Logged in successfully",
		User:    user,
	})
}

// Logout godoc
// @Summary Выход
// @Description Удаляет cookie сессии. Всегда успешен.
// @Tags auth
// @Produce json
// @Success 200 {object} helpers.Response
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	utils.ClearTokenCookie(w, h.secureCookie)
	helpers.JSON(w, http.StatusOK, helpers.Response{
		Success: true,
		Message: "Logged out successfully",
	})
}

// CheckAuth godoc
// @Summary Текущий пользователь
// @Tags auth
// @Produce json
// @Success 200 {object} helpers.Response
// @Failure 400 {object} helpers.Response
// @Failure 401 {object} helpers.Response
// @Router /api/auth/check-auth [get]
func (h *AuthHandler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	userID, ok := reqctx.GetUserID(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Unauthorized - no token provided")
		return
	}

	user, err := h.auth.CheckAuth(r.Context(), userID)
	if err != nil {
		flowFailed(w, r, "CheckAuth", err)
		return
	}

	helpers.JSON(w, http.StatusOK, helpers.Response{Success: true, User: user})
}
