package v1

import (
	"net/http"

	"koryob-backend/config"
	"koryob-backend/internal/delivery/http/middleware"
	"koryob-backend/internal/domain"
	"koryob-backend/internal/metrics"
	"koryob-backend/internal/usecase"
	"koryob-backend/pkg/auth"
	"koryob-backend/pkg/security"
	"koryob-backend/pkg/validation"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC         domain.AuthUsecase
	JobUC          domain.JobUsecase
	MessageUC      domain.MessageUsecase
	ConversationUC domain.ConversationUsecase
	SavedJobUC     domain.SavedJobUsecase
	HealthUC       usecase.HealthUsecase
	ClientTokens   *auth.ClientTokens
	AuthLimiter    *middleware.RateLimiter
	Sanitizer      *security.TextSanitizer
	Metrics        metrics.Recorder
	MetricsHandler http.Handler // nil disables /metrics
	Config         *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop{}
	}
	if deps.Sanitizer == nil {
		deps.Sanitizer = security.NewTextSanitizer()
	}

	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	if deps.Config.SentryDSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	if deps.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	v1 := r.Group("/v1")

	v1.GET("/health", healthCheck(deps.HealthUC))

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Every stateful route is scoped to a client
	client := v1.Group("")
	client.Use(middleware.ClientIdentity(deps.ClientTokens, deps.Config.CookieSecure))
	if deps.Config.CSRFEnabled {
		client.Use(middleware.CSRFMiddleware(deps.Config.CookieSecure))
	}

	var limit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if deps.AuthLimiter != nil {
		limit = deps.AuthLimiter.Middleware()
	}

	// Protected routes
	protected := client.Group("")
	protected.Use(middleware.RequireAuth(deps.AuthUC))
	{
		NewAuthHandler(client, protected, deps.AuthUC, limit)
		NewJobHandler(client, protected, deps.JobUC, deps.AuthUC, deps.Sanitizer)
		NewMessageHandler(protected, deps.MessageUC, deps.JobUC, deps.ConversationUC, deps.Sanitizer)
		NewSavedJobHandler(client, deps.SavedJobUC, deps.JobUC)
	}

	return r
}
