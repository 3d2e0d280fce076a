package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/kamal-hamza/assetctl/internal/adapters/catalog"
	"github.com/kamal-hamza/assetctl/internal/adapters/runlog"
	"github.com/kamal-hamza/assetctl/internal/core/domain"
	"github.com/kamal-hamza/assetctl/internal/core/ports/mocks"
	"github.com/kamal-hamza/assetctl/internal/core/services"
	"github.com/kamal-hamza/assetctl/pkg/config"
	"github.com/kamal-hamza/assetctl/pkg/workspace"
)

// TestCommandStructure verifies that all commands are properly registered
func TestCommandStructure(t *testing.T) {
	commands := []string{
		"init", "upload", "migrate", "compress", "check", "resolve",
		"catalog", "doctor", "watch", "runs", "config", "version",
	}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{cmdName})
			if err != nil {
				t.Fatalf("Command '%s' not found: %v", cmdName, err)
			}
			if cmd == nil {
				t.Fatalf("Command '%s' is nil", cmdName)
			}
			if cmd.Use == "" {
				t.Errorf("Command '%s' has no Use field", cmdName)
			}
		})
	}
}

// TestRootCommandExists verifies the root command is properly configured
func TestRootCommandExists(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("Root command is nil")
	}

	if rootCmd.Use != "assetctl" {
		t.Errorf("Expected root command Use to be 'assetctl', got '%s'", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("Root command Short description is empty")
	}
}

// TestCommandsHaveHelp verifies all commands have help text
func TestCommandsHaveHelp(t *testing.T) {
	commands := rootCmd.Commands()

	if len(commands) == 0 {
		t.Fatal("No commands registered")
	}

	for _, cmd := range commands {
		t.Run(cmd.Name(), func(t *testing.T) {
			if cmd.Short == "" {
				t.Errorf("Command '%s' has no Short description", cmd.Name())
			}
		})
	}
}

// TestSubcommands verifies specific subcommands exist
func TestSubcommands(t *testing.T) {
	tests := []struct {
		parent     string
		subcommand string
	}{
		{"catalog", "list"},
		{"catalog", "show"},
		{"catalog", "browse"},
		{"catalog", "promote"},
		{"runs", "list"},
		{"runs", "show"},
		{"runs", "chart"},
	}

	for _, tt := range tests {
		t.Run(tt.parent+"_"+tt.subcommand, func(t *testing.T) {
			parentCmd, _, err := rootCmd.Find([]string{tt.parent})
			if err != nil {
				t.Fatalf("Parent command '%s' not found: %v", tt.parent, err)
			}

			found := false
			for _, cmd := range parentCmd.Commands() {
				if cmd.Name() == tt.subcommand {
					found = true
					break
				}
			}

			if !found {
				t.Errorf("Subcommand '%s' not found under '%s'", tt.subcommand, tt.parent)
			}
		})
	}
}

// TestFlagsExist verifies important flags are registered
func TestFlagsExist(t *testing.T) {
	tests := []struct {
		command  []string
		flagName string
	}{
		{[]string{"upload"}, "to"},
		{[]string{"upload"}, "compress"},
		{[]string{"upload"}, "group"},
		{[]string{"upload"}, "key"},
		{[]string{"upload"}, "pick"},
		{[]string{"migrate"}, "skip-existing"},
		{[]string{"migrate"}, "missing"},
		{[]string{"compress"}, "force"},
		{[]string{"check"}, "prefix"},
		{[]string{"resolve"}, "store"},
		{[]string{"resolve"}, "copy"},
		{[]string{"catalog", "promote"}, "dry-run"},
		{[]string{"runs", "chart"}, "open"},
		{[]string{"watch"}, "debounce"},
		{[]string{"version"}, "short"},
	}

	for _, tt := range tests {
		t.Run(tt.command[len(tt.command)-1]+"_"+tt.flagName, func(t *testing.T) {
			cmd, _, err := rootCmd.Find(tt.command)
			if err != nil {
				t.Fatalf("Command '%v' not found: %v", tt.command, err)
			}

			flag := cmd.Flags().Lookup(tt.flagName)
			if flag == nil {
				t.Errorf("Flag '--%s' not found on command '%v'", tt.flagName, tt.command)
			}
		})
	}
}

// TestPersistentFlags verifies the global flags
func TestPersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "workspace", "catalog", "log-level", "log-json"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Persistent flag '--%s' not found", name)
		}
	}
}

// TestCommandAliases verifies command aliases work
func TestCommandAliases(t *testing.T) {
	tests := []struct {
		alias   []string
		command string
	}{
		{[]string{"v"}, "version"},
		{[]string{"cat"}, "catalog"},
		{[]string{"catalog", "ls"}, "list"},
		{[]string{"runs", "ls"}, "list"},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			cmd, _, err := rootCmd.Find(tt.alias)
			if err != nil {
				t.Fatalf("Alias '%v' not found: %v", tt.alias, err)
			}
			if cmd.Name() != tt.command {
				t.Errorf("Alias '%v' resolved to '%s', want '%s'", tt.alias, cmd.Name(), tt.command)
			}
		})
	}
}

// TestInitCommand verifies init command exists
func TestInitCommand(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"init"})
	if err != nil {
		t.Fatalf("Init command not found: %v", err)
	}

	if cmd.PersistentPreRunE != nil {
		t.Error("Init command should not have its own PersistentPreRunE")
	}
}

// setupTestApp wires the package globals against a temp workspace
func setupTestApp(t *testing.T, entries ...domain.AssetEntry) {
	t.Helper()
	root := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Pacing.DelayMS = 0
	cfg.Pacing.CompressDelayMS = 0
	appConfig = cfg

	ws, err := workspace.New(root, cfg.CatalogFile, cfg.SidecarFile)
	if err != nil {
		t.Fatalf("workspace.New() error = %v", err)
	}
	if err := ws.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	appWorkspace = ws

	if len(entries) == 0 {
		appCatalog, err = catalog.Default()
	} else {
		data := "entries:\n"
		for _, e := range entries {
			data += "  - key: " + e.Key + "\n    title: " + e.Title + "\n    category: " + e.Category + "\n"
			if e.LocalPath != "" {
				data += "    local_path: " + e.LocalPath + "\n"
			}
		}
		appCatalog, err = catalog.Parse([]byte(data), "test")
	}
	if err != nil {
		t.Fatalf("catalog error = %v", err)
	}

	appLog = logrus.New()
	appLog.SetOutput(os.Stderr)
	resolver = services.NewResolver(appCatalog, services.ResolverSettings{
		CloudName:   "demo",
		CDNTemplate: config.DefaultCDNTemplate,
		Placeholder: config.DefaultPlaceholder,
	}, appLog)
	runLog = runlog.NewFileRunLog(ws.RunLogPath)
	sidecar = runlog.NewFileSidecar(ws.SidecarPath)
}

// TestRunBatch_ValidAndMissing covers a good file followed by a missing one
func TestRunBatch_ValidAndMissing(t *testing.T) {
	setupTestApp(t,
		domain.AssetEntry{Key: "collab/test/present", Title: "Present", Category: "Test", LocalPath: "media/present.mp4"},
		domain.AssetEntry{Key: "collab/test/absent", Title: "Absent", Category: "Test", LocalPath: "media/absent.mp4"},
	)

	path := appWorkspace.MediaPath("media/present.mp4")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}

	media := mocks.NewMockMediaStore()
	executor := newTransferService(services.TransferDeps{Media: media})

	resp, err := runBatch(context.Background(), executor, services.TransferRequest{
		Mode:   domain.ModeUpload,
		Target: domain.StoreCDN,
	}, appCatalog.ListAll())
	if err != nil {
		t.Fatalf("runBatch() error = %v", err)
	}

	results := resp.Run.Results
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != domain.StatusSuccess {
		t.Errorf("first result = %s (%s), want success", results[0].Status, results[0].Error)
	}
	if results[1].Status != domain.StatusFailed || results[1].Error != "File not found" {
		t.Errorf("second result = %s %q, want failed \"File not found\"", results[1].Status, results[1].Error)
	}
	if len(media.GetCalls()) != 1 {
		t.Errorf("expected 1 upload call, got %d", len(media.GetCalls()))
	}

	runs, err := runLog.List(context.Background())
	if err != nil || len(runs) != 1 {
		t.Errorf("expected 1 recorded run, got %d (%v)", len(runs), err)
	}
}

// TestSelection verifies the shared subset flags
func TestSelection(t *testing.T) {
	setupTestApp(t)

	tests := []struct {
		name    string
		sel     selection
		want    int
		wantErr bool
	}{
		{"everything", selection{}, appCatalog.Len(), false},
		{"group", selection{group: "collab/urban-needs"}, 3, false},
		{"keys", selection{keys: []string{"our-work/ugc/cta-ad"}}, 1, false},
		{"unknown key", selection{keys: []string{"nope/nope"}}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := tt.sel.entries()
			if (err != nil) != tt.wantErr {
				t.Fatalf("entries() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(entries) != tt.want {
				t.Errorf("entries() returned %d, want %d", len(entries), tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"collab/urban-needs/product-1", 12, "collab/ur..."},
		{"abcdef", 3, "abc"},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestBuildVersion_Stamped(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "v1.4.0"
	if got := buildVersion(); got != "v1.4.0" {
		t.Errorf("buildVersion() = %q, want stamped version", got)
	}

	Version = "dev"
	if got := buildVersion(); got == "" {
		t.Error("buildVersion() returned empty string for an unstamped build")
	}
}
