package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/cors"

	"skill_barter/config"
	"skill_barter/models"
	"skill_barter/services"
	"skill_barter/utils"
)

type ctxKey struct{}

// UserIDFromContext 返回 RequireAuth 写入的用户 ID
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func withUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// bearerToken 从 Authorization 头取出 token
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// RequireAuth 校验 Authorization: Bearer <jwt>，失败返回 401
func RequireAuth(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				utils.WriteCustomErrorResponse(w, models.CodeUnauthenticated, "no token, authorization denied", map[string]interface{}{})
				return
			}
			claims, err := services.ParseToken(cfg, token)
			if err != nil {
				utils.WriteCustomErrorResponse(w, models.CodeUnauthenticated, "token is not valid", map[string]interface{}{})
				return
			}
			next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), claims.ID)))
		})
	}
}

// CORS 允许配置中的来源跨域访问
// 未配置或包含 * 时允许任意来源，但不返回 Allow-Credentials
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	wildcard := len(allowedOrigins) == 0
	for _, o := range allowedOrigins {
		if o == "*" {
			wildcard = true
		}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	})
}

// writeServiceError 按服务层错误类型写入响应
func writeServiceError(w http.ResponseWriter, err error) {
	utils.HandleServiceError(w, err, services.ErrorCode(err))
}
