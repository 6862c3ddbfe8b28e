package main

import (
	"database/sql"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/wichananm65/user-registry-backend/internal/config"
	"github.com/wichananm65/user-registry-backend/internal/user"
)

const usersSchema = `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		name VARCHAR(120) NOT NULL,
		email VARCHAR(120) NOT NULL UNIQUE,
		phone VARCHAR(50) NOT NULL,
		website VARCHAR(120),
		gender VARCHAR(20) NOT NULL,
		gender_other VARCHAR(120),
		birthdate DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()

	if _, err := db.Exec(usersSchema); err != nil {
		log.Fatalf("schema: %v", err)
	}

	app := fiber.New(fiber.Config{AppName: cfg.ProjectName})
	app.Use(logger.New())
	setupCORS(app, cfg.CORSOrigins)

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)
	userHandler.RegisterRoutes(app)

	log.Printf("%s listening on %s", cfg.ProjectName, cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func setupCORS(app *fiber.App, origins []string) {
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ", "),
		AllowCredentials: true,
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
	}))
}

func mustOpenDB(url string) *sql.DB {
	db, err := sql.Open("pgx", url)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	return db
}
