package models

// APIResponse 通用API响应
type APIResponse struct {
	Code    int         `json:"code" example:"0"`
	Message string      `json:"message" example:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// MatchResponse 匹配结果响应
type MatchResponse struct {
	Code    int            `json:"code" example:"0"`
	Message string         `json:"message" example:"success"`
	Data    []ScoredResult `json:"data"`
}

// AuthResponse 登录 / 注册响应
type AuthResponse struct {
	Code    int        `json:"code" example:"0"`
	Message string     `json:"message" example:"success"`
	Data    AuthResult `json:"data"`
}

// UploadResult 上传结果
type UploadResult struct {
	FileURL  string `json:"fileUrl" example:"https://bucket.s3.amazonaws.com/skillbarter_chat/a.png"`
	FileType string `json:"fileType" example:"image/png"`
}
