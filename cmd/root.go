package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/assetctl/internal/adapters/catalog"
	"github.com/kamal-hamza/assetctl/internal/adapters/runlog"
	"github.com/kamal-hamza/assetctl/internal/core/services"
	"github.com/kamal-hamza/assetctl/pkg/config"
	"github.com/kamal-hamza/assetctl/pkg/logging"
	"github.com/kamal-hamza/assetctl/pkg/ui"
	"github.com/kamal-hamza/assetctl/pkg/workspace"
)

var (
	// Global flags
	flagConfigPath  string
	flagWorkspace   string
	flagCatalogPath string
	flagLogLevel    string
	flagLogJSON     bool

	// Global state
	appConfig    *config.Config
	appConfigSrc string
	appWorkspace *workspace.Workspace
	appCatalog   *catalog.YAMLCatalog
	appLog       *logrus.Logger
	appEnvFiles  []string

	// Services
	resolver *services.Resolver
	runLog   *runlog.FileRunLog
	sidecar  *runlog.FileSidecar
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "assetctl",
	Short: "assetctl - move portfolio videos between CDN and blob storage",
	Long: ui.StyleTitle.Render("assetctl") + " - Asset Migration Pipeline\n\n" +
		"Uploads local videos to the media CDN, verifies what the CDN holds,\n" +
		"migrates CDN videos to blob storage and compresses oversized sources.",
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Config file (default $XDG_CONFIG_HOME/assetctl/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&flagWorkspace, "workspace", "w", "", "Site checkout holding the media files (default from config, else .)")
	rootCmd.PersistentFlags().StringVar(&flagCatalogPath, "catalog", "", "Catalog file (default <workspace>/catalog.yaml, else built-in)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "Write diagnostics as JSON")

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(compressCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp loads configuration, the workspace and the catalog and wires the
// services every command shares. Stores are built per command since each needs
// different credentials.
func initializeApp(cmd *cobra.Command, args []string) error {
	// Skip initialization for commands that don't touch the workspace
	if cmd.Name() == "version" {
		return nil
	}

	// 1. Configuration
	path := flagConfigPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Println(ui.FormatError("Invalid configuration: " + path))
		return err
	}
	appConfig = cfg
	appConfigSrc = path

	if flagWorkspace != "" {
		appConfig.Workspace = flagWorkspace
	}
	if flagLogLevel != "" {
		appConfig.Log.Level = flagLogLevel
	}
	if flagLogJSON {
		appConfig.Log.JSON = true
	}
	ui.SetTheme(appConfig.Theme)

	// 2. Workspace
	ws, err := workspace.New(appConfig.Workspace, appConfig.CatalogFile, appConfig.SidecarFile)
	if err != nil {
		return err
	}
	if !ws.Exists() {
		fmt.Println(ui.FormatError("Workspace not found: " + ws.RootPath))
		return fmt.Errorf("workspace not found")
	}
	appWorkspace = ws

	if cmd.Name() == "init" {
		return nil
	}

	if err := appWorkspace.Initialize(); err != nil {
		return err
	}

	// 3. Environment files never override the process environment
	files, err := config.LoadDotEnv(appWorkspace.RootPath)
	if err != nil {
		fmt.Println(ui.FormatWarning("Failed to load env file: " + err.Error()))
	}
	appEnvFiles = files

	// 4. Diagnostics
	if err := logging.Setup(logging.Options{
		Level:  appConfig.Log.Level,
		JSON:   appConfig.Log.JSON,
		Output: os.Stderr,
		File:   appWorkspace.LogPath,
	}); err != nil {
		return fmt.Errorf("invalid log configuration: %w", err)
	}
	appLog = logrus.StandardLogger()

	// 5. Catalog
	c, err := loadCatalog()
	if err != nil {
		fmt.Println(ui.FormatError("Failed to load catalog"))
		return err
	}
	appCatalog = c

	// 6. Shared services
	cloud := config.CheckEnv(os.LookupEnv, []config.Requirement{config.CloudName})
	resolver = services.NewResolver(appCatalog, services.ResolverSettings{
		CloudName:   cloud.Credentials.Get(config.EnvCloudName),
		CDNTemplate: appConfig.CDN.URLTemplate,
		Placeholder: appConfig.Resolver.Placeholder,
	}, appLog)
	runLog = runlog.NewFileRunLog(appWorkspace.RunLogPath)
	sidecar = runlog.NewFileSidecar(appWorkspace.SidecarPath)

	return nil
}

// loadCatalog picks --catalog, then the workspace catalog, then the built-in one
func loadCatalog() (*catalog.YAMLCatalog, error) {
	if flagCatalogPath != "" {
		return catalog.Load(flagCatalogPath)
	}
	if appWorkspace.HasCatalog() {
		return catalog.Load(appWorkspace.CatalogPath)
	}
	return catalog.Default()
}

// catalogWritePath is where promote writes: the loaded file, or the workspace catalog
func catalogWritePath() string {
	if flagCatalogPath != "" {
		return flagCatalogPath
	}
	return appWorkspace.CatalogPath
}

// getContext returns a context cancelled by SIGINT/SIGTERM
func getContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// fetchTimeout returns the per-download timeout
func fetchTimeout() time.Duration {
	return time.Duration(appConfig.Fetch.TimeoutSeconds) * time.Second
}
