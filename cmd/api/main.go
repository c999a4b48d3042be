package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"tap-miner-backend/internal/config"
	"tap-miner-backend/internal/handlers"
	"tap-miner-backend/internal/middleware"
	"tap-miner-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	redisService, err := services.NewRedisService(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisService.Close()

	jwtService := services.NewJWTService(cfg)

	blocks := services.NewSimulatedChain(cfg.StartBlock, cfg.BlockInterval)
	engine := services.NewTapEngine(redisService, blocks)

	wsHandler := handlers.NewWebSocketHandler(engine, redisService)
	engine.SetBroadcaster(wsHandler)

	authHandler := handlers.NewAuthHandler(redisService, jwtService)
	playerHandler := handlers.NewPlayerHandler(redisService, engine)
	tapHandler := handlers.NewTapHandler(engine, redisService)
	minerHandler := handlers.NewMinerHandler(engine, redisService)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.POST("/auth/login", authHandler.Login)

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	protected.Use(middleware.RateLimitMiddleware(redisService))
	{
		protected.GET("/me", playerHandler.GetCurrentPlayer)
		protected.POST("/logout", playerHandler.Logout)

		protected.GET("/ws", wsHandler.HandleWebSocket)

		taps := protected.Group("/taps")
		{
			taps.POST("/predict", tapHandler.Predict)
			taps.POST("/commit", tapHandler.Commit)
			taps.POST("/verify", tapHandler.Verify)
			taps.GET("/history", tapHandler.History)
		}

		miners := protected.Group("/miners")
		{
			miners.GET("", minerHandler.GetRoster)
			miners.PUT("", minerHandler.UpdateRoster)
			miners.GET("/power", minerHandler.GetPower)
		}
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
