package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/AsonyaGh/Bina/cmd"
	"github.com/AsonyaGh/Bina/internal/core/container"
	"github.com/AsonyaGh/Bina/internal/core/logger"
	"github.com/AsonyaGh/Bina/internal/core/routes"
	"github.com/AsonyaGh/Bina/internal/database"
)

func main() {
	// Load .env, but never overwrite real environment variables.
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cmd.Execute(runServer)
}

func runServer() error {
	zapLogger := logger.NewLogger()
	defer zapLogger.Sync()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		zapLogger.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		return err
	}
	defer db.Close()

	zapLogger.Info("Connected to the database")

	appContainer := container.NewAppContainer(db, zapLogger)
	router := routes.NewRouter(appContainer, zapLogger)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   splitEnvList("CORS_ALLOWED_ORIGINS", "*"),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}).Handler(router)

	host := os.Getenv("APP_HOST")
	if host == "" {
		host = ":8080"
	}

	zapLogger.Info("Starting server", zap.String("host", host))
	return http.ListenAndServe(host, corsHandler)
}

func splitEnvList(key, fallback string) []string {
	value := os.Getenv(key)
	if value == "" {
		value = fallback
	}

	var out []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
