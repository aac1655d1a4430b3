package cmd

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	v1 "github.com/Rana718/forge/internal/api/v1"
	"github.com/Rana718/forge/internal/auth"
	"github.com/Rana718/forge/internal/config"
	"github.com/Rana718/forge/internal/db"
	"github.com/Rana718/forge/internal/logger"
	"github.com/Rana718/forge/internal/models"
	"github.com/Rana718/forge/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web service",
	Long: `
Run the gin web service configured by the environment (.env is loaded
first): DB_TYPE, AUTH_TYPE, SECRET_KEY, HOST, PORT, LOG_LEVEL, ...

Stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}

		log, err := logger.New(settings.LogLevel, settings.LogFormat)
		if err != nil {
			return err
		}
		defer log.Sync()

		if !strings.EqualFold(settings.LogLevel, "debug") {
			gin.SetMode(gin.ReleaseMode)
		}

		gdb, err := db.Open(settings, log)
		if err != nil {
			return err
		}
		defer db.Close(gdb)

		if err := db.Ping(cmd.Context(), gdb); err != nil {
			return err
		}
		if settings.AutoMigrate {
			if err := db.AutoMigrate(gdb, models.All()...); err != nil {
				return err
			}
		}

		provider, err := auth.NewProvider(settings)
		if err != nil {
			return fmt.Errorf("failed to configure authentication: %w", err)
		}

		deps := &v1.Deps{DB: gdb, Settings: settings, Auth: provider, Log: log}
		log.Info("starting service",
			zap.String("project", settings.ProjectName),
			zap.String("version", settings.Version),
			zap.String("database", settings.DBType),
			zap.String("auth", settings.AuthType),
		)
		return server.Run(cmd.Context(), settings.Addr(), server.NewEngine(deps), log)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
