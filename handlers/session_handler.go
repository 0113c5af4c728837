package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"skill_barter/config"
	"skill_barter/services"
	"skill_barter/utils"
)

// CreateRequestHandler godoc
// @Summary 发起联系请求
// @Tags 会话
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.CreateRequestInput true "请求内容"
// @Success 201 {object} models.APIResponse "成功"
// @Failure 400 {object} models.APIResponse "参数错误"
// @Failure 404 {object} models.APIResponse "接收方不存在"
// @Router /api/requests [post]
func CreateRequestHandler(w http.ResponseWriter, r *http.Request) {
	var in services.CreateRequestInput
	if !utils.DecodeJSONBody(w, r, &in) {
		return
	}

	req, err := services.CreateRequest(r.Context(), UserIDFromContext(r.Context()), &in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteCreatedResponse(w, req)
}

// ListRequestsHandler godoc
// @Summary 我的请求
// @Description 返回收到的 (incoming) 和发出的 (outgoing) 请求
// @Tags 会话
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse "成功"
// @Router /api/requests [get]
func ListRequestsHandler(w http.ResponseWriter, r *http.Request) {
	lists, err := services.ListRequests(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, lists)
}

// RespondRequestHandler godoc
// @Summary 接受或拒绝请求
// @Description 只有接收方可以操作
// @Tags 会话
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "请求ID"
// @Param request body services.RespondInput true "accepted / rejected"
// @Success 200 {object} models.APIResponse "成功"
// @Failure 403 {object} models.APIResponse "无权操作"
// @Failure 404 {object} models.APIResponse "请求不存在"
// @Router /api/requests/{id}/respond [post]
func RespondRequestHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !utils.RequireParam(w, "id", id) {
		return
	}
	var in services.RespondInput
	if !utils.DecodeJSONBody(w, r, &in) {
		return
	}

	req, err := services.RespondToRequest(r.Context(), UserIDFromContext(r.Context()), id, &in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, req)
}

// CompleteRequestHandler godoc
// @Summary 完成会话
// @Description 标记已接受的请求为完成，老师获得 1 积分
// @Tags 会话
// @Produce json
// @Security BearerAuth
// @Param id path string true "请求ID"
// @Success 200 {object} models.APIResponse "成功"
// @Failure 400 {object} models.APIResponse "请求未接受或已完成"
// @Failure 403 {object} models.APIResponse "无权操作"
// @Router /api/requests/{id}/complete [post]
func CompleteRequestHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !utils.RequireParam(w, "id", id) {
		return
	}

	req, err := services.CompleteRequest(r.Context(), UserIDFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, req)
}

type startSessionBody struct {
	TeacherID string `json:"teacherId" example:"0b6f..."`
}

// StartSessionHandler godoc
// @Summary 开始会话
// @Description 学习者扣除 1 积分，返回会议链接
// @Tags 会话
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body startSessionBody true "老师ID"
// @Success 200 {object} models.APIResponse "成功"
// @Failure 403 {object} models.APIResponse "积分不足"
// @Failure 404 {object} models.APIResponse "老师不存在"
// @Router /api/sessions/start [post]
func StartSessionHandler(w http.ResponseWriter, r *http.Request, cfg *config.Config) {
	var body startSessionBody
	if !utils.DecodeJSONBody(w, r, &body) {
		return
	}
	if !utils.RequireParam(w, "teacherId", body.TeacherID) {
		return
	}

	res, err := services.StartSession(r.Context(), cfg, UserIDFromContext(r.Context()), body.TeacherID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, res)
}
