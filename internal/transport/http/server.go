package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"wpanswers/internal/ai"
	appsvc "wpanswers/internal/app"
	"wpanswers/internal/bootstrap"
	"wpanswers/internal/cache"
	"wpanswers/internal/embed"
	rabbitmqClient "wpanswers/internal/platform/rabbitmq"
	"wpanswers/internal/repository"
	"wpanswers/internal/transport/http/handler"
	"wpanswers/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	authHandler := handler.NewAuthHandler(authService)

	genaiClient := ai.NewClient()
	batcher := embed.NewBatcher(embed.ClientService{
		Client: genaiClient,
		Config: ai.EmbeddingConfig{
			BaseURL: app.Config.GenAI.BaseURL,
			APIKey:  app.Config.GenAI.APIKey,
			Model:   app.Config.GenAI.EmbeddingModel,
		},
	}, app.Config.RAG.BatchSize)
	generator := ai.BoundGenerator{
		Client: genaiClient,
		Config: ai.GenerationConfig{
			BaseURL:     app.Config.GenAI.BaseURL,
			APIKey:      app.Config.GenAI.APIKey,
			Model:       app.Config.GenAI.GenerationModel,
			MaxTokens:   app.Config.GenAI.MaxTokens,
			Temperature: app.Config.GenAI.Temperature,
			TopK:        app.Config.GenAI.TopK,
			TopP:        app.Config.GenAI.TopP,
		},
	}

	embeddingRepo := repository.NewEmbeddingRepository(app.MySQL)
	retriever := appsvc.NewRetriever(batcher, embeddingRepo, app.Config.RAG.TopK)
	answerCache := cache.NewAnswerCache(app.Redis, time.Duration(app.Config.Redis.AnswerTTLSeconds)*time.Second)
	queryLogPublisher := rabbitmqClient.NewQueryLogPublisher(app.MQConn, app.Config.RabbitMQ.QueryLogQueue)
	ragService := appsvc.NewRAGService(retriever, generator, answerCache, queryLogPublisher)
	ragHandler := handler.NewRAGHandler(ragService)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.AuthJWT(app.Config.Auth.JWTSecret), authHandler.Me)

	ragGroup := v1.Group("/rag")
	ragGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	ragGroup.POST("/ask", ragHandler.Ask)
	ragGroup.GET("/search", ragHandler.Search)

	return router
}
