package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/omoide/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// *sql.DBがそのまま適合する。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig
	StatusRecorder    middleware.HTTPStatusRecorder
	MetricsHandler    http.Handler
	Logger            *slog.Logger

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 記事
	ArticleService ArticleServiceInterface
	ArticleMetrics ArticleMetricsRecorder

	// 記念日
	MemorialService MemorialServiceInterface

	// メディア
	MediaService  MediaServiceInterface
	MediaMetrics  MediaMetricsRecorder
	MediaMaxBytes int64
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics →
//	  （認証ルートグループ）Session → CSRF → RateLimit(General)
//
// 認証ルート（/auth/*）、メディア配信（/media/*）、/health、/metricsは
// 認証ミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.StatusRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.StatusRecorder))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	articleHandler := NewArticleHandler(deps.ArticleService, deps.ArticleMetrics)
	memorialHandler := NewMemorialHandler(deps.MemorialService)
	mediaHandler := NewMediaHandler(deps.MediaService, deps.MediaMetrics, deps.MediaMaxBytes)

	// --- 認証不要のルート ---

	// ヘルスチェック
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if deps.HealthChecker != nil {
			if err := deps.HealthChecker.PingContext(r.Context()); err != nil {
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheusスクレイプ
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// CSRFトークン取得
	r.Get("/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig).ServeHTTP)

	// 認証フロー
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.SignUp)
		r.Post("/signin", authHandler.SignIn)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// メディア配信（記事閲覧用。認証不要）
	r.Get("/media/{kind}/{id}", mediaHandler.Serve)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → CSRF → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 記事管理
		r.Route("/api/articles", func(r chi.Router) {
			r.Post("/", articleHandler.CreateArticle)
			r.Get("/", articleHandler.ListArticles)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", articleHandler.GetArticle)
				r.Patch("/", articleHandler.UpdateArticle)
				r.Delete("/", articleHandler.DeleteArticle)
			})
		})

		// 記念日管理
		r.Route("/api/memorials", func(r chi.Router) {
			r.Post("/", memorialHandler.CreateMemorial)
			r.Get("/", memorialHandler.ListMemorials)
		})

		// メディアアップロード（アップロード専用レート制限を追加）
		r.With(deps.RateLimiter.UploadMiddleware()).Post("/api/media", mediaHandler.Upload)
	})

	return r
}
