package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/GoOnOutdoor/janz-tracker/internal/config"
	"github.com/GoOnOutdoor/janz-tracker/internal/relay"
	"github.com/GoOnOutdoor/janz-tracker/pkg/utils"
)

func main() {
	// -----------------------
	// ENV
	if err := godotenv.Load(); err != nil {
		utils.Log.Info("No .env file found")
	}

	cfg, err := config.Load(os.Getenv("WORKOUT_CONFIG"))
	if err != nil {
		utils.Log.Error("Failed to load config: " + err.Error())
		os.Exit(1)
	}
	if cfg.SheetsURL == "" {
		// Precondição de configuração: os endpoints de dados respondem
		// 500 fixo até SHEETS_URL existir.
		utils.Log.Warn("SHEETS_URL não configurado; /api/sheets responderá erro de configuração")
	}

	// -----------------------
	// ROUTER
	router := gin.New()
	router.Use(gin.Recovery(), relay.RequestID(), relay.RequestLogger(utils.Log))

	rl := relay.New(relay.Config{
		UpstreamURL: cfg.SheetsURL,
		Timeout:     cfg.Timeout,
		Logger:      utils.Log,
	})
	rl.Register(router)

	utils.Log.Info("Relay starting on " + cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		utils.Log.Error("Failed to run relay: " + err.Error())
		os.Exit(1)
	}
}
