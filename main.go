package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/matthew8541/YelpCamp/internal/apperr"
	"github.com/matthew8541/YelpCamp/internal/config"
	"github.com/matthew8541/YelpCamp/internal/db"
	"github.com/matthew8541/YelpCamp/internal/handler"
	"github.com/matthew8541/YelpCamp/internal/logger"
	"github.com/matthew8541/YelpCamp/internal/middleware"
	"github.com/matthew8541/YelpCamp/internal/mongo"
	"github.com/matthew8541/YelpCamp/internal/repository"
	"github.com/matthew8541/YelpCamp/internal/service"
	"github.com/matthew8541/YelpCamp/internal/session"
)

func main() {
	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}

	conn, err := db.InitPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("postgres", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	mongoClient, err := mongo.NewClient(cfg.MongoURI)
	if err != nil {
		log.Fatal("mongo", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(conn)
	campgroundRepo := repository.NewCampgroundRepository(conn)
	reviewRepo := repository.NewReviewRepository(conn)
	photoRepo := repository.NewPhotoRepository(mongoClient, cfg.MongoDB)

	sessions := session.NewManager(
		session.NewRedisStore(rdb, cfg.SessionTTL),
		cfg.SessionSecret,
		cfg.SessionTTL,
	)

	authService := service.NewAuthService(userRepo)
	reviewService := service.NewReviewService(reviewRepo, campgroundRepo)

	authHandler := &handler.AuthHandler{Auth: authService, Sessions: sessions}
	campgroundHandler := &handler.CampgroundHandler{
		Campgrounds: campgroundRepo,
		Reviews:     reviewRepo,
		Sessions:    sessions,
	}
	reviewHandler := &handler.ReviewHandler{Reviews: reviewService, Sessions: sessions}
	photoHandler := &handler.PhotoHandler{
		Photos:      photoRepo,
		Campgrounds: campgroundRepo,
		Sessions:    sessions,
	}

	r := gin.New()
	r.Use(
		middleware.RequestLogging(log),
		gin.Recovery(),
		middleware.ErrorHandler(log),
		middleware.Sessions(sessions),
	)

	requireLogin := middleware.RequireLogin(sessions)
	campgroundAuthor := middleware.CampgroundAuthor(campgroundRepo, sessions)
	reviewAuthor := middleware.ReviewAuthor(reviewRepo, sessions)

	r.GET("/register", authHandler.RegisterForm)
	r.POST("/register", authHandler.Register)
	r.GET("/login", authHandler.LoginForm)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	r.GET("/campgrounds", campgroundHandler.Index)
	r.GET("/campgrounds/new", requireLogin, campgroundHandler.New)
	r.POST("/campgrounds", requireLogin, campgroundHandler.Create)
	r.GET("/campgrounds/:id", campgroundHandler.Show)
	r.GET("/campgrounds/:id/edit", requireLogin, campgroundAuthor, campgroundHandler.Edit)
	r.PUT("/campgrounds/:id", requireLogin, campgroundAuthor, campgroundHandler.Update)
	r.DELETE("/campgrounds/:id", requireLogin, campgroundAuthor, campgroundHandler.Delete)

	r.POST("/campgrounds/:id/reviews", requireLogin, reviewHandler.Create)
	r.DELETE("/campgrounds/:id/reviews/:reviewId", requireLogin, reviewAuthor, reviewHandler.Delete)

	r.POST("/campgrounds/:id/photo", requireLogin, campgroundAuthor, photoHandler.Upload)
	r.GET("/campgrounds/:id/photo", photoHandler.Download)

	r.NoRoute(func(c *gin.Context) {
		apperr.Abort(c, apperr.New(http.StatusNotFound, "Page Not Found"))
	})

	log.Info("serving", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("server", zap.Error(err))
	}
}
