package handlers

import (
	"net/http"

	"github.com/Ajju0211/full-stack-gemini-clone/internal/utils/helpers"
)

type verifyEmailRequest struct {
	Code string `json:"code"`
}

// VerifyEmail godoc
// @Summary Подтвердить email
// @Description Подтверждает email по 6-значному коду из письма
// @Tags auth
// @Accept json
// @Produce json
// @Param input body verifyEmailRequest true "Код подтверждения"
// @Success 200 {object} helpers.Response
// @Failure 400 {object} helpers.Response
// @Router /api/auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if !decodeJSON(w, r, &req, "VerifyEmail") {
		return
	}

	user, err := h.auth.VerifyEmail(r.Context(), req.Code)
	if err != nil {
		flowFailed(w, r, "VerifyEmail", err)
		return
	}

	helpers.JSON(w, http.StatusOK, helpers.Response{
		Success: true,
		Message: "Email verified successfully",
		User:    user,
	})
}
