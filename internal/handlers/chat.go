package handlers

import (
	"context"
	"net/http"

	"github.com/Ajju0211/full-stack-gemini-clone/internal/models"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/utils/helpers"
)

type ChatLog interface {
	Record(ctx context.Context, userID, chat, response string) (*models.Chat, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Chat, error)
}

type ChatHandler struct {
	chats ChatLog
}

func NewChatHandler(chats ChatLog) *ChatHandler {
	return &ChatHandler{chats: chats}
}

type chatRequest struct {
	UserID   string `json:"user_id"`
	Chat     string `json:"chat"`
	Response string `json:"response"`
}

type getChatRequest struct {
	UserID string `json:"user_id"`
}

// Record godoc
// @Summary Сохранить сообщение чата
// @Tags chat
// @Accept json
// @Produce json
// @Param input body chatRequest true "Запрос и ответ"
// @Success 200 {object} helpers.Response
// @Failure 400 {object} helpers.Response
// @Router /api/auth/chat [post]
func (h *ChatHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req, "Chat") {
		return
	}

	saved, err := h.chats.Record(r.Context(), req.UserID, req.Chat, req.Response)
	if err != nil {
		flowFailed(w, r, "Chat", err)
		return
	}

	helpers.JSON(w, http.StatusOK, helpers.Response{Success: true, Data: saved})
}

// GetChat godoc
// @Summary История чата пользователя
// @Tags chat
// @Accept json
// @Produce json
// @Param input body getChatRequest true "ID пользователя"
// @Success 200 {object} helpers.Response
// @Failure 400 {object} helpers.Response
// @Router /api/auth/get-chat [post]
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	var req getChatRequest
	if !decodeJSON(w, r, &req, "GetChat") {
		return
	}

	chats, err := h.chats.ListForUser(r.Context(), req.UserID)
	if err != nil {
		flowFailed(w, r, "GetChat", err)
		return
	}

	helpers.JSON(w, http.StatusOK, helpers.Response{Success: true, Data: chats})
}
