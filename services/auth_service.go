package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"skill_barter/config"
	"skill_barter/db"
	"skill_barter/logger"
	"skill_barter/models"
	"skill_barter/repository"
)

const (
	bcryptCost   = 12
	devJWTSecret = "skillbarter-dev-secret"
)

var (
	validate     = validator.New()
	warnJWTOnce  sync.Once
	signingAlgos = []string{jwt.SigningMethodHS256.Alg()}
)

// Claims JWT 载荷
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// ValidateStruct 校验请求体，失败时包装为 ErrInvalidInput
func ValidateStruct(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func jwtSecret(cfg *config.Config) []byte {
	if cfg.JWT.Secret == "" {
		warnJWTOnce.Do(func() {
			logger.Warn("JWT secret not configured, using development secret")
		})
		return []byte(devJWTSecret)
	}
	return []byte(cfg.JWT.Secret)
}

// IssueToken 签发 {id, email} 令牌
func IssueToken(cfg *config.Config, u *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:    u.ID,
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.JWT.ExpireHours) * time.Hour)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret(cfg))
}

// ParseToken 校验令牌并返回载荷
func ParseToken(cfg *config.Config, tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods(signingAlgos))
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret(cfg), nil
	})
	if err != nil || !token.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Signup 注册新用户：生成简介（可选）、计算 embedding（失败可忽略）、发放初始积分
func Signup(ctx context.Context, cfg *config.Config, req *models.SignupRequest) (*models.AuthResult, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}

	if _, err := repository.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		UserProfile: models.UserProfile{
			ID:       uuid.NewString(),
			Username: req.Username,
			Bio:      strings.TrimSpace(req.Bio),
			Skills:   req.Skills,
		},
		Email:        req.Email,
		PasswordHash: string(hash),
		Gender:       req.Gender,
		Phone:        req.Phone,
		Credits:      cfg.Credits.Initial,
	}
	if u.Skills == nil {
		u.Skills = make([]models.Skill, 0)
	}

	if u.Bio == "" {
		u.Bio = generateBio(ctx, &u.UserProfile)
	}

	// embedding 失败不阻塞注册，留给调度器补全
	if vec, err := EmbedProfile(ctx, &u.UserProfile, "signup"); err != nil {
		if !errors.Is(err, errNoEmbedder) {
			logger.Warn("Embedding generation failed", "email", u.Email, "error", err)
		}
	} else {
		u.Embedding = vec
	}

	if err := repository.CreateUser(ctx, u); err != nil {
		if db.IsDuplicateKey(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	logger.Info("User created", "user_id", u.ID, "username", u.Username, "has_embedding", len(u.Embedding) > 0)

	token, err := IssueToken(cfg, u)
	if err != nil {
		return nil, err
	}
	return &models.AuthResult{Result: u, Token: token}, nil
}

func generateBio(ctx context.Context, p *models.UserProfile) string {
	d, _ := currentDeps()
	if d.BioGen == nil {
		return ""
	}
	bio, err := d.BioGen.GenerateBio(ctx, p.TeachSkills(), p.LearnSkills())
	if err != nil {
		logger.Warn("Failed to generate bio", "error", err)
		return ""
	}
	return bio
}

// Signin 邮箱密码登录
func Signin(ctx context.Context, cfg *config.Config, req *models.SigninRequest) (*models.AuthResult, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}

	u, err := repository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := IssueToken(cfg, u)
	if err != nil {
		return nil, err
	}
	return &models.AuthResult{Result: u, Token: token}, nil
}

// GetUser 按 ID 获取用户
func GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := repository.GetUserByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// UpdateProfile 部分更新资料；技能或简介变化时重新计算 embedding，失败保留旧向量
func UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.User, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}

	u, err := GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && strings.TrimSpace(*req.Username) != "" {
		u.Username = strings.TrimSpace(*req.Username)
	}
	if req.Bio != nil && strings.TrimSpace(*req.Bio) != "" {
		u.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.Gender != nil && *req.Gender != "" {
		u.Gender = *req.Gender
	}
	if req.Phone != nil && *req.Phone != "" {
		u.Phone = *req.Phone
	}
	if req.Skills != nil {
		u.Skills = *req.Skills
	}

	if req.Skills != nil || req.Bio != nil {
		if vec, err := EmbedProfile(ctx, &u.UserProfile, "update"); err != nil {
			if !errors.Is(err, errNoEmbedder) {
				logger.Warn("Embedding update failed", "user_id", u.ID, "error", err)
			}
		} else {
			u.Embedding = vec
		}
	}

	if err := repository.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
