package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventar-backend/controllers"
	"inventar-backend/models"
	"inventar-backend/routes"
	"inventar-backend/services"
	"inventar-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
)

func main() {
	// Инициализация базы данных
	db, err := models.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Схема обязана быть проверяемой: без нее продолжать нельзя
	if err := models.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Логгер приложения: stdout плюс файл в logs/
	appLog := utils.NewLogger()

	// Хаб рассылки журнала аудита
	feed := services.NewAuditFeed()
	go feed.Run()

	// Инициализация сервисов
	auditService := services.NewAuditService(db, appLog, feed)
	inventoryService := services.NewInventoryService(db, auditService)
	importService := services.NewImportService(db, auditService)
	backupService := services.NewBackupService(db, auditService)
	settingsService := services.NewSettingsService(db, auditService)

	// Фиксируем запуск приложения
	if err := auditService.Record(models.AuditLog{
		Action:     models.ActionStartup,
		EntityType: models.EntityApplication,
		Details:    "Application started",
	}); err != nil {
		log.Fatal("Failed to write startup audit entry:", err)
	}

	// Создание Fiber приложения
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
				"code":    code,
			})
		},
	})

	// Middleware
	app.Use(logger.New())

	// CORS настройки
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000,http://127.0.0.1:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Инициализация контроллеров
	boxController := controllers.NewBoxController(inventoryService)
	itemController := controllers.NewItemController(inventoryService)
	historyController := controllers.NewHistoryController(auditService)
	statsController := controllers.NewStatsController(inventoryService)
	importController := controllers.NewImportController(importService)
	backupController := controllers.NewBackupController(backupService)
	settingsController := controllers.NewSettingsController(settingsService)

	// Настройка маршрутов
	routes.SetupBoxRoutes(app, boxController)
	routes.SetupItemRoutes(app, itemController)
	routes.SetupHistoryRoutes(app, historyController)
	routes.SetupStatsRoutes(app, statsController)
	routes.SetupImportRoutes(app, importController)
	routes.SetupBackupRoutes(app, backupController)
	routes.SetupSettingsRoutes(app, settingsController)

	// WebSocket маршрут: живая лента журнала аудита
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		feed.HandleWebSocket(c)
	}))

	// Общий health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"message":   "Inventar Backend is running",
			"timestamp": time.Now().Unix(),
		})
	})

	// Напоминание о резервной копии при запуске
	if latest, err := backupService.LatestBackupTime(); err == nil {
		if services.ShouldRemind(latest, time.Now()) {
			appLog.Warn("No recent database backup found, consider POST /api/backup")
		}
	}

	// Фиксируем завершение приложения по сигналу
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		if err := auditService.Record(models.AuditLog{
			Action:     models.ActionShutdown,
			EntityType: models.EntityApplication,
			Details:    "Application closed",
		}); err != nil {
			log.Printf("Failed to write shutdown audit entry: %v", err)
		}

		_ = app.Shutdown()
	}()

	// Запуск сервера
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(app.Listen(":" + port))
}
