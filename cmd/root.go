package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Rana718/forge/internal/config"
)

var (
	cfgFile string
	Version = "0.1.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"  ███████╗ ██████╗ ██████╗  ██████╗ ███████╗",
		"  ██╔════╝██╔═══██╗██╔══██╗██╔════╝ ██╔════╝",
		"  █████╗  ██║   ██║██████╔╝██║  ███╗█████╗  ",
		"  ██╔══╝  ██║   ██║██╔══██╗██║   ██║██╔══╝  ",
		"  ██║     ╚██████╔╝██║  ██║╚██████╔╝███████╗",
		"  ╚═╝      ╚═════╝ ╚═╝  ╚═╝ ╚═════╝ ╚══════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("              ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "Scaffold and run gin/gorm web backends",
	Long: `
forge generates CRUD resources for a gin + gorm web service and wraps
the developer workflow around it.

Commands:
- scaffold (g): model, schemas, repository, handlers and tests for a resource
- migrate: create, apply, roll back and inspect SQL migrations
- reset: drop every table and re-apply migrations
- test / format: go test, gofmt, golangci-lint and go vet shortcuts
- serve: run the web service

Database Support:
- PostgreSQL
- MySQL
- SQLite`,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("forge version %s\n", Version)
			return
		}

		showBanner()
		fmt.Println()
		_ = cmd.Help()
	},
}

// Execute runs the CLI; SIGINT and SIGTERM cancel the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+config.FileName+")")
	rootCmd.PersistentFlags().BoolP("force", "f", false, "Skip confirmations")
	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	_ = godotenv.Load()
	_ = godotenv.Load(".env.local")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("forge.config")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			color.Yellow("⚠️  Failed to read config: %v", err)
		}
	}
}

func forceFlag(cmd *cobra.Command) bool {
	force, _ := cmd.Flags().GetBool("force")
	return force
}
