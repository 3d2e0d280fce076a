package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kamal-hamza/assetctl/pkg/config"
	"github.com/kamal-hamza/assetctl/pkg/ui"
)

var configShow bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Edit the assetctl configuration file",
	Long: `Open the configuration file in $EDITOR, creating it with defaults first
if it doesn't exist. Use --show to print the effective configuration.`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configShow, "show", false, "Print the effective configuration instead of editing")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if configShow {
		data, err := yaml.Marshal(appConfig)
		if err != nil {
			return err
		}
		fmt.Println(ui.FormatMuted("# " + appConfigSrc))
		fmt.Print(string(data))
		return nil
	}

	path := appConfigSrc

	// Ensure it exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := config.DefaultConfig().Save(path); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		fmt.Println(ui.FormatSuccess("Created default config"))
	}

	fmt.Println(ui.FormatInfo("Opening config: " + path))

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	c := exec.Command(editor, path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}
