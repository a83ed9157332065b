package handlers

import (
	"net/http"

	"github.com/Ajju0211/full-stack-gemini-clone/internal/utils/helpers"

	"github.com/gorilla/mux"
)

type forgotReq struct {
	Email string `json:"email"`
}

type resetReq struct {
	Password string `json:"password"`
}

// ForgotPassword godoc
// @Summary Запрос восстановления пароля
// @Description Отправляет письмо со ссылкой для сброса пароля
// @Tags password
// @Accept json
// @Produce json
// @Param input body forgotReq true "Email пользователя"
// @Success 200 {object} helpers.Response
// @Failure 400 {object} helpers.Response
// @Router /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotReq
	if !decodeJSON(w, r, &req, "ForgotPassword") {
		return
	}

	if err := h.auth.ForgotPassword(r.Context(), req.Email); err != nil {
		flowFailed(w, r, "ForgotPassword", err)
		return
	}

	helpers.JSON(w, http.StatusOK, helpers.Response{
		Success: true,
		Message: "Password reset link sent to your email",
	})
}

// ResetPassword godoc
// @Summary Сброс пароля по токену из письма
// @Tags password
// @Accept json
// @Produce json
// @Param token path string true "Токен сброса"
// @Param input body resetReq true "Новый пароль"
// @Success 200 {object} helpers.Response
// @Failure 400 {object} helpers.Response
// @Router /api/auth/reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var req resetReq
	if !decodeJSON(w, r, &req, "ResetPassword") {
		return
	}

	if err := h.auth.ResetPassword(r.Context(), token, req.Password); err != nil {
		flowFailed(w, r, "ResetPassword", err)
		return
	}

	helpers.JSON(w, http.StatusOK, helpers.Response{
		Success: true,
		Message: "Password reset successfully",
	})
}
