package main

import (
	"os"
	"time"

	"taskman/configs"
	"taskman/internal/api"
	"taskman/internal/session"
	"taskman/internal/ui"
	"taskman/pkg/logger"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func main() {
	// Load config dulu karena lokasi log diambil dari config.
	cfg := configs.LoadConfig()

	logger.InitLoggers(cfg.LogDir)
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting task client",
		zap.String("api_base_url", cfg.APIBaseURL),
		zap.String("time", time.Now().Format(time.RFC3339)),
	)

	sess := session.NewStore(cfg.TokenFile)
	client := api.NewClient(cfg.APIBaseURL, sess, time.Duration(cfg.HTTPTimeout)*time.Second)

	app := ui.NewApp(cfg, client, sess)
	program := tea.NewProgram(app, tea.WithAltScreen())

	// 401 dari endpoint manapun harus mengarahkan kembali ke login.
	client.OnUnauthorized(func() {
		program.Send(ui.UnauthorizedMsg{})
	})

	if _, err := program.Run(); err != nil {
		logger.ErrorLogger.Error("Application failed", zap.Error(err))
		os.Exit(1)
	}
	logger.SystemLogger.Info("Task client stopped")
}
