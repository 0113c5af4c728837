package models

import "net/http"

// 响应码定义
const (
	// 成功
	CodeSuccess = 0

	// 客户端错误 (1000-1999)
	CodeInvalidParams       = 1000 // 无效的参数
	CodeMissingParams       = 1001 // 缺少必要参数
	CodeUserNotFound        = 1002 // 用户不存在
	CodeUnauthenticated     = 1003 // 未登录或 token 无效
	CodeInvalidCredentials  = 1004 // 密码错误
	CodeEmailTaken          = 1005 // 邮箱已注册
	CodeInsufficientCredits = 1006 // 积分不足
	CodeAlreadyUpvoted      = 1007 // 已点赞
	CodeNotFound            = 1008 // 资源不存在
	CodeForbidden           = 1009 // 无权操作

	// 服务端错误 (2000-2999)
	CodeServerError        = 2000 // 服务器内部错误
	CodeDatabaseError      = 2001 // 数据库错误
	CodeUploadError        = 2004 // 文件上传错误
	CodeThirdPartyAPIError = 2005 // 第三方API错误
)

// 错误码对应的消息
var CodeMessages = map[int]string{
	CodeSuccess:             "success",
	CodeInvalidParams:       "invalid parameters",
	CodeMissingParams:       "missing required parameters",
	CodeUserNotFound:        "user not found",
	CodeUnauthenticated:     "unauthenticated",
	CodeInvalidCredentials:  "invalid credentials",
	CodeEmailTaken:          "user already exists",
	CodeInsufficientCredits: "insufficient credits",
	CodeAlreadyUpvoted:      "already upvoted",
	CodeNotFound:            "not found",
	CodeForbidden:           "forbidden",
	CodeServerError:         "something went wrong",
	CodeDatabaseError:       "database error",
	CodeUploadError:         "file upload failed",
	CodeThirdPartyAPIError:  "third party api error",
}

var codeStatus = map[int]int{
	CodeSuccess:             http.StatusOK,
	CodeInvalidParams:       http.StatusBadRequest,
	CodeMissingParams:       http.StatusBadRequest,
	CodeUserNotFound:        http.StatusNotFound,
	CodeUnauthenticated:     http.StatusUnauthorized,
	CodeInvalidCredentials:  http.StatusBadRequest,
	CodeEmailTaken:          http.StatusBadRequest,
	CodeInsufficientCredits: http.StatusForbidden,
	CodeAlreadyUpvoted:      http.StatusBadRequest,
	CodeNotFound:            http.StatusNotFound,
	CodeForbidden:           http.StatusForbidden,
	CodeThirdPartyAPIError:  http.StatusBadGateway,
}

// HTTPStatus 返回业务码对应的 HTTP 状态码，未登记的服务端错误统一 500
func HTTPStatus(code int) int {
	if status, ok := codeStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Code:    CodeSuccess,
		Message: CodeMessages[CodeSuccess],
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, data interface{}) APIResponse {
	message, exists := CodeMessages[code]
	if !exists {
		message = "unknown error"
	}
	return APIResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// NewCustomErrorResponse 创建自定义错误消息的响应
func NewCustomErrorResponse(code int, message string, data interface{}) APIResponse {
	return APIResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}
