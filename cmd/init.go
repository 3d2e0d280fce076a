package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/assetctl/internal/adapters/catalog"
	"github.com/kamal-hamza/assetctl/pkg/config"
	"github.com/kamal-hamza/assetctl/pkg/ui"
)

var initForce bool

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a workspace",
	Long: `Initialize the workspace (default: the current directory).

This creates:
  - catalog.yaml : the asset catalog, seeded with the built-in entries
  - .assetctl/   : run log, diagnostics log and rendered charts
  - config.yaml  : global configuration, if it doesn't exist yet`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing catalog.yaml")
}

func runInit(cmd *cobra.Command, args []string) error {
	fmt.Println(ui.FormatRocket("Initializing assetctl workspace..."))
	fmt.Println(ui.FormatMuted("Location: " + appWorkspace.RootPath))
	fmt.Println()

	if err := appWorkspace.Initialize(); err != nil {
		fmt.Println(ui.FormatError("Failed to initialize workspace"))
		return err
	}
	fmt.Println(ui.FormatSuccess("State directory created"))

	if appWorkspace.HasCatalog() && !initForce {
		fmt.Println(ui.FormatWarning("Catalog already exists (use --force to overwrite)"))
	} else {
		if err := os.WriteFile(appWorkspace.CatalogPath, catalog.DefaultYAML(), 0644); err != nil {
			fmt.Println(ui.FormatError("Failed to write catalog"))
			return err
		}
		fmt.Println(ui.FormatSuccess("Catalog written to " + appWorkspace.CatalogPath))
	}

	if _, err := os.Stat(appConfigSrc); os.IsNotExist(err) {
		if err := config.DefaultConfig().Save(appConfigSrc); err != nil {
			// Don't fail - config is optional
			fmt.Println(ui.FormatWarning("Failed to create default config: " + err.Error()))
		} else {
			fmt.Println(ui.FormatSuccess("Default config written to " + appConfigSrc))
		}
	}

	fmt.Println()
	fmt.Println(ui.FormatInfo("Next: put credentials in .env.local and run 'assetctl doctor'"))
	return nil
}
