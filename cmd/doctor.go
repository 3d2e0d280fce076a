package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/assetctl/internal/core/domain"
	"github.com/kamal-hamza/assetctl/pkg/config"
	"github.com/kamal-hamza/assetctl/pkg/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the health of your assetctl setup",
	Long: `Diagnose issues with your assetctl setup.

Checks for:
  - Workspace and catalog
  - Configuration file
  - Credentials for the media CDN and the blob store
  - Encoder (ffmpeg)
  - Local files referenced by the catalog`,
	Run: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) {
	fmt.Println(ui.FormatTitle("🏥 assetctl Doctor"))
	fmt.Println()

	// 1. Workspace
	checkStep("Workspace", func() error {
		if !appWorkspace.Exists() {
			return fmt.Errorf("not found at %s", appWorkspace.RootPath)
		}
		return nil
	})

	checkStep("Catalog", func() error {
		if !appWorkspace.HasCatalog() && flagCatalogPath == "" {
			return fmt.Errorf("using built-in catalog (run 'assetctl init' to write %s)", appWorkspace.CatalogPath)
		}
		return nil
	})

	checkStep("Configuration File", func() error {
		if _, err := os.Stat(appConfigSrc); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s (defaults in use)", appConfigSrc)
		}
		return nil
	})

	checkStep("Env Files", func() error {
		if len(appEnvFiles) == 0 {
			return fmt.Errorf("no .env.local or .env in %s", appWorkspace.RootPath)
		}
		return nil
	})

	// 2. Credentials
	checkStep("Media CDN credentials", func() error {
		return missingEnv(config.CDNRequirements())
	})

	checkStep("Blob store credentials ("+appConfig.Blob.Kind+")", func() error {
		return missingEnv(config.BlobRequirements(appConfig.Blob.Kind))
	})

	// 3. Tools
	checkStep(appConfig.Encoder.Binary+" (Encoder)", func() error {
		if !newEncoder(false).Available() {
			return fmt.Errorf("not found (required for 'assetctl compress' and 'upload --compress')")
		}
		return nil
	})

	fmt.Println()
	fmt.Println(ui.FormatInfo("Checking catalog integrity..."))

	// 4. Local files
	checkStep("Local Files", func() error {
		missing := 0
		for _, e := range appCatalog.ListAll() {
			if e.LocalPath == "" {
				continue
			}
			if _, err := os.Stat(appWorkspace.MediaPath(e.LocalPath)); err != nil {
				if missing == 0 {
					fmt.Println()
				}
				fmt.Printf("    %s -> %s (Missing)\n", e.Key, e.LocalPath)
				missing++
			}
		}
		if missing > 0 {
			return fmt.Errorf("%d local files not found", missing)
		}
		return nil
	})

	checkStep("Shared Local Files", func() error {
		shared := appCatalog.SharedPaths()
		if len(shared) == 0 {
			return nil
		}
		for p, keys := range shared {
			fmt.Printf("    %s -> %s\n", p, strings.Join(keys, ", "))
		}
		return fmt.Errorf("%d files are uploaded under more than one key", len(shared))
	})

	checkStep("Sources", func() error {
		unresolvable := 0
		for _, e := range appCatalog.ListAll() {
			if resolver.Resolve(e, domain.StoreBlob) == resolver.Placeholder() {
				fmt.Printf("    %s (placeholder)\n", e.Key)
				unresolvable++
			}
		}
		if unresolvable > 0 {
			return fmt.Errorf("%d entries resolve to the placeholder", unresolvable)
		}
		return nil
	})
}

func missingEnv(reqs []config.Requirement) error {
	return config.CheckEnv(os.LookupEnv, reqs).Err()
}

// checkStep runs a check function and prints the result nicely
func checkStep(name string, check func() error) {
	err := check()
	if err == nil {
		fmt.Printf("%s %s\n", ui.FormatSuccess("✔"), name)
	} else {
		fmt.Printf("%s %s\n", ui.FormatError("✘"), name)
		fmt.Printf("    %s\n", ui.StyleMuted.Render(err.Error()))
	}
}
