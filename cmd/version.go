package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/assetctl/pkg/ui"
)

// Stamped by the release build with -ldflags "-X .../cmd.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Print the assetctl build",
	Aliases: []string{"v"},
	Long: `Print the assetctl version, the commit it was built from and the
platform. 'go install' builds report the module version instead of "dev".`,
	Run: runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print the version number only")
}

func runVersion(cmd *cobra.Command, args []string) {
	v := buildVersion()
	if versionShort {
		fmt.Println(v)
		return
	}

	fmt.Println(ui.StyleTitle.Render("assetctl") + " " + v)
	fmt.Println(ui.RenderKeyValue("Commit", GitCommit))
	fmt.Println(ui.RenderKeyValue("Built", BuildDate))
	fmt.Println(ui.RenderKeyValue("Platform", runtime.GOOS+"/"+runtime.GOARCH+" "+runtime.Version()))
}

// buildVersion prefers the stamped version, then the module version
func buildVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
