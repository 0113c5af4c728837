package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"skill_barter/config"
	"skill_barter/services"
	"skill_barter/utils"
)

// ListQuestionsHandler godoc
// @Summary 社区问题列表
// @Description 全部问题，最新在前，包含回答、回复和点赞用户
// @Tags 社区
// @Produce json
// @Success 200 {object} models.APIResponse "成功"
// @Router /api/community/questions [get]
func ListQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	questions, err := services.ListQuestions(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, questions)
}

// CreateQuestionHandler godoc
// @Summary 提问
// @Tags 社区
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.ContentInput true "问题内容"
// @Success 201 {object} models.APIResponse "成功"
// @Failure 400 {object} models.APIResponse "参数错误"
// @Router /api/community/questions [post]
func CreateQuestionHandler(w http.ResponseWriter, r *http.Request) {
	var in services.ContentInput
	if !utils.DecodeJSONBody(w, r, &in) {
		return
	}

	q, err := services.CreateQuestion(r.Context(), UserIDFromContext(r.Context()), &in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteCreatedResponse(w, q)
}

// AnswerQuestionHandler godoc
// @Summary 回答问题
// @Tags 社区
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "问题ID"
// @Param request body services.ContentInput true "回答内容"
// @Success 201 {object} models.APIResponse "成功"
// @Failure 404 {object} models.APIResponse "问题不存在"
// @Router /api/community/questions/{id}/answers [post]
func AnswerQuestionHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !utils.RequireParam(w, "id", id) {
		return
	}
	var in services.ContentInput
	if !utils.DecodeJSONBody(w, r, &in) {
		return
	}

	a, err := services.AnswerQuestion(r.Context(), UserIDFromContext(r.Context()), id, &in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteCreatedResponse(w, a)
}

// ReplyAnswerHandler godoc
// @Summary 回复回答
// @Tags 社区
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "回答ID"
// @Param request body services.ContentInput true "回复内容"
// @Success 201 {object} models.APIResponse "成功"
// @Failure 404 {object} models.APIResponse "回答不存在"
// @Router /api/community/answers/{id}/replies [post]
func ReplyAnswerHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !utils.RequireParam(w, "id", id) {
		return
	}
	var in services.ContentInput
	if !utils.DecodeJSONBody(w, r, &in) {
		return
	}

	reply, err := services.ReplyToAnswer(r.Context(), UserIDFromContext(r.Context()), id, &in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteCreatedResponse(w, reply)
}

// UpvoteAnswerHandler godoc
// @Summary 点赞回答
// @Description 每人只能点赞一次，每累计 10 个赞回答作者获得 1 积分
// @Tags 社区
// @Produce json
// @Security BearerAuth
// @Param id path string true "回答ID"
// @Success 200 {object} models.APIResponse "成功"
// @Failure 400 {object} models.APIResponse "已点赞"
// @Failure 404 {object} models.APIResponse "回答不存在"
// @Router /api/community/answers/{id}/upvote [post]
func UpvoteAnswerHandler(w http.ResponseWriter, r *http.Request, cfg *config.Config) {
	id := chi.URLParam(r, "id")
	if !utils.RequireParam(w, "id", id) {
		return
	}

	res, err := services.UpvoteAnswer(r.Context(), cfg, UserIDFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, res)
}

// KnowledgeGraphHandler godoc
// @Summary 知识图谱
// @Description 用户为节点，能教 / 想学的技能互补时连边
// @Tags 社区
// @Produce json
// @Success 200 {object} models.APIResponse "成功"
// @Router /api/graph [get]
func KnowledgeGraphHandler(w http.ResponseWriter, r *http.Request) {
	g, err := services.BuildKnowledgeGraph(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, g)
}
