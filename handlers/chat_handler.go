package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"skill_barter/chat"
	"skill_barter/config"
	"skill_barter/models"
	"skill_barter/services"
	"skill_barter/utils"
)

// ChatHistoryHandler godoc
// @Summary 聊天记录
// @Description 当前用户与指定用户之间的消息，时间正序
// @Tags 聊天
// @Produce json
// @Security BearerAuth
// @Param userId path string true "对方用户ID"
// @Success 200 {object} models.APIResponse "成功"
// @Router /api/chat/{userId} [get]
func ChatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	otherID := chi.URLParam(r, "userId")
	if !utils.RequireParam(w, "userId", otherID) {
		return
	}

	messages, err := services.ChatHistory(r.Context(), UserIDFromContext(r.Context()), otherID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, messages)
}

// ChatSocketHandler godoc
// @Summary 实时聊天 websocket
// @Description 浏览器无法设置 Authorization 头，token 通过查询参数传递。客户端发送 {recipient, content, fileUrl, fileType}，服务端推送 {type: "receive_message", message}
// @Tags 聊天
// @Param token query string true "JWT"
// @Success 101 "Switching Protocols"
// @Failure 401 {object} models.APIResponse "未登录"
// @Router /ws [get]
func ChatSocketHandler(w http.ResponseWriter, r *http.Request, cfg *config.Config, hub *chat.Hub) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = bearerToken(r)
	}
	claims, err := services.ParseToken(cfg, token)
	if err != nil {
		utils.WriteCustomErrorResponse(w, models.CodeUnauthenticated, "token is not valid", map[string]interface{}{})
		return
	}
	hub.ServeWS(w, r, claims.ID)
}
