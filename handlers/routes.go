package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"skill_barter/chat"
	"skill_barter/config"
	_ "skill_barter/docs" // 导入 swagger 文档
)

func RegisterRoutes(r *chi.Mux, cfg *config.Config, hub *chat.Hub) {
	// Swagger 文档
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"), // Swagger JSON 的 URL
	))
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		ChatSocketHandler(w, r, cfg, hub)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(CORS(cfg.Server.AllowedOrigins))

		r.Post("/match", MatchHandler)
		r.Get("/graph", KnowledgeGraphHandler)
		r.Get("/community/questions", ListQuestionsHandler)
		r.Get("/upload/test", func(w http.ResponseWriter, r *http.Request) {
			UploadTestHandler(w, r, cfg)
		})

		r.Post("/auth/signup", func(w http.ResponseWriter, r *http.Request) {
			SignupHandler(w, r, cfg)
		})
		r.Post("/auth/signin", func(w http.ResponseWriter, r *http.Request) {
			SigninHandler(w, r, cfg)
		})

		// 以下接口需要登录
		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(cfg))

			r.Get("/auth/me", MeHandler)
			r.Put("/auth/update", UpdateProfileHandler)

			r.Post("/credits/spend", SpendCreditHandler)
			r.Post("/credits/earn", EarnCreditHandler)

			r.Post("/requests", CreateRequestHandler)
			r.Get("/requests", ListRequestsHandler)
			r.Post("/requests/{id}/respond", RespondRequestHandler)
			r.Post("/requests/{id}/complete", CompleteRequestHandler)
			r.Post("/sessions/start", func(w http.ResponseWriter, r *http.Request) {
				StartSessionHandler(w, r, cfg)
			})

			r.Get("/chat/{userId}", ChatHistoryHandler)

			r.Post("/community/questions", CreateQuestionHandler)
			r.Post("/community/questions/{id}/answers", AnswerQuestionHandler)
			r.Post("/community/answers/{id}/replies", ReplyAnswerHandler)
			r.Post("/community/answers/{id}/upvote", func(w http.ResponseWriter, r *http.Request) {
				UpvoteAnswerHandler(w, r, cfg)
			})

			r.Post("/upload", func(w http.ResponseWriter, r *http.Request) {
				UploadHandler(w, r, cfg)
			})
		})
	})
}
