package router

import (
	"context"
	"net/http"
	"time"

	"fashigram/internal/config"
	"fashigram/internal/handlers"
	"fashigram/internal/middleware"
	"fashigram/internal/services"
	"fashigram/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// Services bundles what the routes need.
type Services struct {
	Store     store.Store
	Consensus *services.ConsensusService
	Feed      *services.FeedService
	Posts     *services.PostService
	Styles    *services.StyleService
	Circles   *services.CircleService
	Spotlight *services.SpotlightService
}

// NewServices wires every service onto one store.
func NewServices(st store.Store) (*Services, error) {
	styles, err := services.NewStyleService(st)
	if err != nil {
		return nil, err
	}
	feed := services.NewFeedService(st)
	consensus := services.NewConsensusService(st, st)
	return &Services{
		Store:     st,
		Consensus: consensus,
		Feed:      feed,
		Posts:     services.NewPostService(st, consensus, styles, feed),
		Styles:    styles,
		Circles:   services.NewCircleService(st),
		Spotlight: services.NewSpotlightService(st, st, st, feed),
	}, nil
}

// New builds the engine with global middleware and every route registered.
func New(cfg *config.Config, svc *Services, limiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	cookieStore := cookie.NewStore([]byte(cfg.SessionSecret))
	cookieStore.Options(sessions.Options{Path: "/", MaxAge: 30 * 24 * 3600, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions("fashigram_session", cookieStore))

	r.Use(middleware.LoadUser([]byte(cfg.JWTSecret)))

	RegisterRoutes(r, svc, limiter)
	return r
}

func RegisterRoutes(r *gin.Engine, svc *Services, limiter *middleware.RateLimiter) {
	feedHandler := handlers.NewFeedHandler(svc.Feed, svc.Styles)
	postHandler := handlers.NewPostHandler(svc.Posts, svc.Spotlight)
	voteHandler := handlers.NewVoteHandler(svc.Consensus)
	styleHandler := handlers.NewStyleHandler(svc.Styles, svc.Posts)
	circleHandler := handlers.NewCircleHandler(svc.Circles)
	spotlightHandler := handlers.NewSpotlightHandler(svc.Spotlight)

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := svc.Store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// 公共路由 (Public Routes)
	api.GET("/feed", feedHandler.Feed)                       // 首页信息流，new/top
	api.GET("/feed/countries", feedHandler.Countries)        // 国家筛选项
	api.GET("/styles", styleHandler.List)                    // 风格目录
	api.GET("/styles/:name/posts", styleHandler.Posts)       // 风格页
	api.GET("/posts/:id", postHandler.Detail)                // 帖子详情
	api.GET("/posts/:id/circles", postHandler.Circles)       // 包含该帖子的圈子
	api.GET("/users/:id/posts", postHandler.ByAuthor)        // 用户主页帖子
	api.GET("/circles/:id", circleHandler.Get)               // 圈子信息
	api.GET("/circles/:id/spotlight", spotlightHandler.List) // 圈子精选

	// 受保护路由 (Protected Routes)
	authorized := api.Group("")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/posts", postHandler.Create)
		authorized.DELETE("/posts/:id", postHandler.Delete)
		authorized.POST("/circles", circleHandler.Create)
		authorized.GET("/circles", circleHandler.List)
	}

	// 限流的写操作
	throttled := authorized.Group("")
	throttled.Use(limiter.Middleware())
	{
		throttled.POST("/posts/:id/votes", voteHandler.Vote)
		throttled.POST("/posts/:id/suggestions", voteHandler.Suggest)
		throttled.POST("/circles/:id/spotlight/:postId", spotlightHandler.Toggle)
	}
}
