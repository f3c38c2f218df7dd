package app

import (
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/projecthub/api/internal/config"
	"github.com/projecthub/api/internal/middleware"
	"github.com/projecthub/api/internal/modules/auth/auth"
	"github.com/projecthub/api/internal/modules/auth/profile"
	"github.com/projecthub/api/internal/modules/auth/user"
	"github.com/projecthub/api/internal/modules/content/category"
	"github.com/projecthub/api/internal/modules/content/project"
	"github.com/projecthub/api/internal/modules/content/rating"
	"github.com/projecthub/api/internal/modules/content/review"
	"github.com/projecthub/api/internal/modules/storage/photo"
	"github.com/projecthub/api/internal/pkg/response"
	"github.com/projecthub/api/internal/pkg/storage"
)

const apiPrefix = "/api/v1"

// NewRouter builds the gin engine with the middleware chain and every resource route.
func NewRouter(cfg *config.AppConfig, logger *zap.Logger, deps Deps) *gin.Engine {
	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.MaxMultipartMemory = cfg.MaxFileUpload
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(secure.New(secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		IsDevelopment:      cfg.IsDev(),
	}))
	r.Use(corsMiddleware(cfg))
	r.Use(middleware.RateLimit(deps.Counter, cfg.RateWindow(), cfg.RateLimit.Max, logger.Named("RateLimit")))

	r.NoRoute(response.NotFound)
	r.NoMethod(response.MethodNotAllowed)

	if local, ok := deps.Backend.(*storage.Local); ok {
		r.Static("/uploads", local.Dir())
	}

	store := deps.Store
	guard := middleware.NewGuard(store.Users)
	photos := photo.NewUploader(deps.Backend, cfg.MaxFileUpload, logger.Named("photo"))
	ratings := rating.NewAggregator(store.Reviews, store.Projects, logger.Named("rating"))

	userSvc := user.NewService(store.Users)
	authSvc := auth.NewService(userSvc, cfg.JWTTTL())

	api := r.Group(apiPrefix)

	category.NewHandler(category.NewService(store.Categories), photos).RegisterRoutes(api, guard)
	project.NewHandler(project.NewService(store.Projects, store.Categories, store.Reviews), photos).RegisterRoutes(api, guard)
	review.NewHandler(review.NewService(store.Reviews, store.Projects, ratings)).RegisterRoutes(api, guard)

	auth.NewHandler(authSvc, auth.CookieOptions{TTL: cfg.CookieTTL(), Secure: !cfg.IsDev()}).RegisterRoutes(api, guard)
	user.NewHandler(userSvc).RegisterRoutes(api, guard)
	profile.NewHandler(profile.NewService(store.Profiles), photos).RegisterRoutes(api, guard)

	return r
}
