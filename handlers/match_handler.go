package handlers

import (
	"net/http"

	"skill_barter/models"
	"skill_barter/services"
	"skill_barter/utils"
)

// MatchHandler godoc
// @Summary 技能匹配搜索
// @Description 按技能（语义 + 关键词）或用户名搜索用户。query 为空时返回全部用户，分数为 0。embedding 服务不可用时自动降级为关键词匹配。filterType 只接受 skill 或 name（为空时按 skill），其他取值返回 400
// @Tags 匹配
// @Accept json
// @Produce json
// @Param request body models.MatchRequest true "搜索条件"
// @Success 200 {object} models.MatchResponse "成功"
// @Failure 400 {object} models.APIResponse "参数错误或 filterType 取值不支持"
// @Failure 500 {object} models.APIResponse "服务器错误"
// @Router /api/match [post]
func MatchHandler(w http.ResponseWriter, r *http.Request) {
	var req models.MatchRequest
	if !utils.DecodeJSONBody(w, r, &req) {
		return
	}

	filter, err := models.ParseFilterType(req.FilterType)
	if err != nil {
		utils.WriteCustomErrorResponse(w, models.CodeInvalidParams, err.Error(), map[string]interface{}{
			"param": "filterType",
		})
		return
	}

	results, err := services.MatchUsers(r.Context(), req.Query, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, results)
}
