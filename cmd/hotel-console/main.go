package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/brizzai/hotel-console/internal/auth"
	"github.com/brizzai/hotel-console/internal/authapi"
	"github.com/brizzai/hotel-console/internal/config"
	"github.com/brizzai/hotel-console/internal/logger"
	"github.com/brizzai/hotel-console/internal/requester"
	"github.com/brizzai/hotel-console/internal/services"
	"github.com/brizzai/hotel-console/internal/session"
	"github.com/brizzai/hotel-console/internal/tui"
)

func main() {
	Execute()
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hotel-console",
	Short: "Terminal admin console for the hotel booking platform",
	Long: `Hotel Console signs you in to the hotel booking platform with an e-mail code or
Google, then lets you manage your hotels, rooms and bookings from the terminal.`,
	Run: runConsole,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Place version check in PreRun to ensure flags are parsed first
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			pterm.Info.Println(config.GetVersionInfo())
			os.Exit(0)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")
	rootCmd.AddCommand(contractCmd)
}

// runConsole wires the console and blocks until the user quits.
func runConsole(cmd *cobra.Command, args []string) {
	defer func() {
		if r := recover(); r != nil {
			pterm.Error.Printf("\nCaught panic: %v\n", r)
			pterm.Error.Printf("%s\n", debug.Stack())
			os.Exit(2)
		}
	}()

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		pterm.Error.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.InitLogger(&cfg.Logging); err != nil {
		pterm.Error.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	var prog *tui.Program
	app := fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.GetLogger()}
		}),
		fx.Supply(cfg),
		requester.Module,
		authapi.Module,
		session.Module,
		auth.Module,
		services.Module,
		tui.Module,
		fx.Populate(&prog),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		pterm.Error.Printf("Error starting console: %v\n", err)
		os.Exit(1)
	}

	runErr := prog.Run()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		logger.Warn("failed to stop cleanly", zap.Error(err))
	}

	if runErr != nil {
		pterm.Error.Printf("Error running program: %v\n", runErr)
		os.Exit(1)
	}
}
