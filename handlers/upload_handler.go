package handlers

import (
	"errors"
	"net/http"

	"skill_barter/config"
	"skill_barter/models"
	"skill_barter/services"
	"skill_barter/utils"
)

// UploadHandler godoc
// @Summary 上传聊天附件
// @Tags 上传
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "文件"
// @Success 200 {object} models.APIResponse{data=models.UploadResult} "成功"
// @Failure 400 {object} models.APIResponse "未选择文件或类型不支持"
// @Failure 500 {object} models.APIResponse "上传失败"
// @Router /api/upload [post]
func UploadHandler(w http.ResponseWriter, r *http.Request, cfg *config.Config) {
	limit := int64(cfg.Upload.MaxSizeMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, limit+(1<<20))
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.WriteCustomErrorResponse(w, models.CodeInvalidParams, services.ErrFileTooLarge.Error(), map[string]interface{}{})
			return
		}
		utils.WriteCustomErrorResponse(w, models.CodeMissingParams, "no file uploaded", map[string]interface{}{"param": "file"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.WriteCustomErrorResponse(w, models.CodeMissingParams, "no file uploaded", map[string]interface{}{"param": "file"})
		return
	}
	defer file.Close()

	res, err := services.UploadFile(r.Context(), cfg, header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, res)
}

// UploadTestHandler godoc
// @Summary 存储配置检查
// @Tags 上传
// @Produce json
// @Success 200 {object} models.APIResponse "成功"
// @Router /api/upload/test [get]
func UploadTestHandler(w http.ResponseWriter, r *http.Request, cfg *config.Config) {
	utils.WriteSuccessResponse(w, map[string]interface{}{
		"configured": services.StorageConfigured(),
		"bucket":     cfg.Upload.Bucket,
		"prefix":     cfg.Upload.Prefix,
	})
}
