package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/taskdesk/taskdesk-api/internal/config"
	"github.com/taskdesk/taskdesk-api/internal/constants"
	"github.com/taskdesk/taskdesk-api/internal/database"
	"github.com/taskdesk/taskdesk-api/internal/handlers"
	"github.com/taskdesk/taskdesk-api/internal/middleware"
	"github.com/taskdesk/taskdesk-api/internal/models"
	"github.com/taskdesk/taskdesk-api/internal/notify"
	"github.com/taskdesk/taskdesk-api/internal/repository"
	"github.com/taskdesk/taskdesk-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if cfg.DBDriver == "postgres" {
		if err := database.AddIndexes(database.GetDB()); err != nil {
			log.Fatalf("Failed to add indexes: %v", err)
		}
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := services.NewAuthService(userRepo)
	companyService := services.NewCompanyService(companyRepo, userRepo)
	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo, notify.NewLogNotifier())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	companyHandler := handlers.NewCompanyHandler(companyService)
	companyTaskHandler := handlers.NewCompanyTaskHandler(taskService)
	companyUserHandler := handlers.NewCompanyUserHandler(userService)
	userTaskHandler := handlers.NewUserTaskHandler(taskService)
	legacyTaskHandler := handlers.NewLegacyTaskHandler(taskService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Taskdesk API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.POST("/logout", middleware.RequireAuth(), authHandler.Logout)
		api.GET("/user", middleware.RequireAuth(), authHandler.GetCurrentUser)

		// Admin routes (platform admins only)
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/companies", companyHandler.ListCompanies)
			admin.POST("/companies", companyHandler.CreateCompany)
			admin.GET("/companies/:id", companyHandler.GetCompany)
			admin.PUT("/companies/:id", companyHandler.UpdateCompany)
			admin.DELETE("/companies/:id", companyHandler.DeleteCompany)
			admin.GET("/companies/:id/customers", companyHandler.ListCustomers)
		}

		// Company routes (company admins only)
		company := api.Group("/company")
		company.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleCompany))
		{
			company.GET("/tasks", companyTaskHandler.ListTasks)
			company.POST("/tasks", companyTaskHandler.CreateTask)
			company.GET("/tasks/:id", companyTaskHandler.GetTask)
			company.PUT("/tasks/:id", companyTaskHandler.UpdateTask)
			company.DELETE("/tasks/:id", companyTaskHandler.DeleteTask)

			company.GET("/users", companyUserHandler.ListUsers)
			company.POST("/users", companyUserHandler.CreateUser)
			company.GET("/users/:id", companyUserHandler.GetUser)
			company.PUT("/users/:id", companyUserHandler.UpdateUser)
			company.DELETE("/users/:id", companyUserHandler.DeleteUser)
		}

		// User routes (plain users only)
		user := api.Group("/user")
		user.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleUser))
		{
			user.GET("/tasks", userTaskHandler.ListTasks)
			user.POST("/tasks", userTaskHandler.CreateTask)
			user.GET("/tasks/:id", userTaskHandler.GetTask)
			user.PUT("/tasks/:id", userTaskHandler.UpdateTask)
			user.DELETE("/tasks/:id", userTaskHandler.DeleteTask)
			user.PATCH("/tasks/:id/status", userTaskHandler.UpdateStatus)
			user.POST("/tasks/:id/notes", userTaskHandler.ReplaceNotes)
		}

		// Legacy task routes (any authenticated role, creator-scoped)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", legacyTaskHandler.ListTasks)
			tasks.POST("", legacyTaskHandler.CreateTask)
			tasks.GET("/:id", legacyTaskHandler.GetTask)
			tasks.PUT("/:id", legacyTaskHandler.UpdateTask)
			tasks.DELETE("/:id", legacyTaskHandler.DeleteTask)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
