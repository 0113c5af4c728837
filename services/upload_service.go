package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"skill_barter/config"
	"skill_barter/logger"
	"skill_barter/models"
)

// allowedExtensions 允许上传的文件类型
var allowedExtensions = map[string]bool{
	"jpg": true, "png": true, "jpeg": true, "webp": true, "gif": true,
	"pdf": true, "docx": true, "doc": true, "txt": true, "mp4": true, "mov": true,
}

// S3Store 基于 S3（或兼容服务）的文件存储
type S3Store struct {
	uploader  *manager.Uploader
	bucket    string
	publicURL string
	region    string
}

// NewS3Store 未配置 bucket 时返回 nil
func NewS3Store(ctx context.Context, cfg *config.Config) (*S3Store, error) {
	if cfg.Upload.Bucket == "" {
		return nil, nil
	}

	var options []func(*awsconfig.LoadOptions) error
	if cfg.Upload.Region != "" {
		options = append(options, awsconfig.WithRegion(cfg.Upload.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// 自定义 endpoint（MinIO / R2 等）时使用 path-style
	var s3Options []func(*s3.Options)
	if cfg.Upload.Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Upload.Endpoint)
			o.UsePathStyle = true
		})
	}
	client := s3.NewFromConfig(awsCfg, s3Options...)

	return &S3Store{
		uploader:  manager.NewUploader(client),
		bucket:    cfg.Upload.Bucket,
		publicURL: strings.TrimRight(cfg.Upload.PublicURL, "/"),
		region:    awsCfg.Region,
	}, nil
}

// Put 上传对象并返回访问地址
func (s *S3Store) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	out, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	if s.publicURL != "" {
		return s.publicURL + "/" + key, nil
	}
	if out.Location != "" {
		return out.Location, nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

// UploadFile 校验扩展名与大小后上传，返回文件 URL 和 MIME 类型
func UploadFile(ctx context.Context, cfg *config.Config, filename, contentType string, size int64, body io.Reader) (*models.UploadResult, error) {
	d, _ := currentDeps()
	if d.Files == nil {
		return nil, ErrStorageNotConfigured
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("%w: .%s", ErrUnsupportedFileType, ext)
	}
	if limit := int64(cfg.Upload.MaxSizeMB) << 20; limit > 0 && size > limit {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d MB", ErrFileTooLarge, size, cfg.Upload.MaxSizeMB)
	}

	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension("." + ext); byExt != "" {
			contentType = byExt
		} else {
			contentType = "application/octet-stream"
		}
	}

	key := path.Join(cfg.Upload.Prefix, time.Now().UTC().Format("2006/01/02"), uuid.NewString()+"."+ext)
	url, err := d.Files.Put(ctx, key, body, contentType)
	if err != nil {
		logger.Error("File upload failed", "key", key, "error", err)
		return nil, fmt.Errorf("%w: %s: %v", ErrUploadFailed, filename, err)
	}
	logger.Info("File uploaded", "key", key, "size", size, "content_type", contentType)
	return &models.UploadResult{FileURL: url, FileType: contentType}, nil
}

// StorageConfigured 存储是否可用
func StorageConfigured() bool {
	d, _ := currentDeps()
	return d.Files != nil
}
