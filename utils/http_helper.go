package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"skill_barter/logger"
	"skill_barter/models"
)

// maxBodyBytes JSON 请求体上限
const maxBodyBytes = 1 << 20

// WriteFormattedJSON 格式化JSON输出，使其更易读
func WriteFormattedJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "    ") // 使用4个空格缩进
	if err := encoder.Encode(data); err != nil {
		logger.Warn("Failed to write response", "error", err)
	}
}

// WriteSuccessResponse 写入成功响应
func WriteSuccessResponse(w http.ResponseWriter, data interface{}) {
	WriteFormattedJSON(w, http.StatusOK, models.NewSuccessResponse(data))
}

// WriteCreatedResponse 写入 201 响应
func WriteCreatedResponse(w http.ResponseWriter, data interface{}) {
	WriteFormattedJSON(w, http.StatusCreated, models.NewSuccessResponse(data))
}

// WriteErrorResponse 写入错误响应
func WriteErrorResponse(w http.ResponseWriter, code int, data interface{}) {
	WriteFormattedJSON(w, models.HTTPStatus(code), models.NewErrorResponse(code, data))
}

// WriteCustomErrorResponse 写入自定义错误消息的响应
func WriteCustomErrorResponse(w http.ResponseWriter, code int, message string, data interface{}) {
	WriteFormattedJSON(w, models.HTTPStatus(code), models.NewCustomErrorResponse(code, message, data))
}

// HandleServiceError 处理服务层错误的通用函数
// 客户端错误返回具体原因，服务端错误只记录日志，响应里使用通用消息
func HandleServiceError(w http.ResponseWriter, err error, code int) {
	if code >= models.CodeServerError {
		logger.Error("Request failed", "code", code, "error", err)
		WriteErrorResponse(w, code, map[string]interface{}{})
		return
	}
	WriteCustomErrorResponse(w, code, err.Error(), map[string]interface{}{})
}

// DecodeJSONBody 解析请求体，失败时写入 400 并返回 false
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			WriteCustomErrorResponse(w, models.CodeMissingParams, "request body is empty", map[string]interface{}{})
			return false
		}
		WriteCustomErrorResponse(w, models.CodeInvalidParams, "invalid request body: "+err.Error(), map[string]interface{}{})
		return false
	}
	return true
}

// RequireParam 校验必填参数
func RequireParam(w http.ResponseWriter, name, value string) bool {
	if value == "" {
		WriteErrorResponse(w, models.CodeMissingParams, map[string]interface{}{
			"param": name,
		})
		return false
	}
	return true
}
