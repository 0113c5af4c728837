package handlers

import (
	"net/http"

	"skill_barter/config"
	"skill_barter/models"
	"skill_barter/services"
	"skill_barter/utils"
)

// SignupHandler godoc
// @Summary 注册
// @Description 创建账户。简介为空时由 LLM 生成，embedding 计算失败不影响注册
// @Tags 账户
// @Accept json
// @Produce json
// @Param request body models.SignupRequest true "注册信息"
// @Success 201 {object} models.AuthResponse "成功"
// @Failure 400 {object} models.APIResponse "参数错误或邮箱已注册"
// @Failure 500 {object} models.APIResponse "服务器错误"
// @Router /api/auth/signup [post]
func SignupHandler(w http.ResponseWriter, r *http.Request, cfg *config.Config) {
	var req models.SignupRequest
	if !utils.DecodeJSONBody(w, r, &req) {
		return
	}

	res, err := services.Signup(r.Context(), cfg, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteCreatedResponse(w, res)
}

// SigninHandler godoc
// @Summary 登录
// @Tags 账户
// @Accept json
// @Produce json
// @Param request body models.SigninRequest true "邮箱和密码"
// @Success 200 {object} models.AuthResponse "成功"
// @Failure 400 {object} models.APIResponse "密码错误"
// @Failure 404 {object} models.APIResponse "用户不存在"
// @Router /api/auth/signin [post]
func SigninHandler(w http.ResponseWriter, r *http.Request, cfg *config.Config) {
	var req models.SigninRequest
	if !utils.DecodeJSONBody(w, r, &req) {
		return
	}

	res, err := services.Signin(r.Context(), cfg, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, res)
}

// MeHandler godoc
// @Summary 当前用户
// @Tags 账户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse "成功"
// @Failure 401 {object} models.APIResponse "未登录"
// @Router /api/auth/me [get]
func MeHandler(w http.ResponseWriter, r *http.Request) {
	u, err := services.GetUser(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, u)
}

// UpdateProfileHandler godoc
// @Summary 更新资料
// @Description 部分更新，未提供的字段保持不变。技能或简介变化时重新计算 embedding
// @Tags 账户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.UpdateProfileRequest true "要更新的字段"
// @Success 200 {object} models.APIResponse "成功"
// @Failure 400 {object} models.APIResponse "参数错误"
// @Failure 401 {object} models.APIResponse "未登录"
// @Router /api/auth/update [put]
func UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProfileRequest
	if !utils.DecodeJSONBody(w, r, &req) {
		return
	}

	u, err := services.UpdateProfile(r.Context(), UserIDFromContext(r.Context()), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, u)
}

// SpendCreditHandler godoc
// @Summary 扣减 1 积分
// @Tags 积分
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse "成功，返回新余额"
// @Failure 403 {object} models.APIResponse "积分不足"
// @Router /api/credits/spend [post]
func SpendCreditHandler(w http.ResponseWriter, r *http.Request) {
	credits, err := services.SpendCredit(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"credits": credits})
}

// EarnCreditHandler godoc
// @Summary 增加 1 积分
// @Tags 积分
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse "成功，返回新余额"
// @Router /api/credits/earn [post]
func EarnCreditHandler(w http.ResponseWriter, r *http.Request) {
	credits, err := services.EarnCredit(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"credits": credits})
}
