package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestCheckEnv_AllPresent(t *testing.T) {
	env := map[string]string{
		EnvCloudName:      "agency",
		EnvCloudAPIKey:    "key",
		EnvCloudAPISecret: "secret",
	}

	res := CheckEnv(lookupFrom(env), CDNRequirements())
	if !res.Ok() {
		t.Fatalf("expected ok, missing %v", res.MissingNames())
	}
	if res.Credentials.Get(EnvCloudName) != "agency" {
		t.Errorf("cloud name = %q", res.Credentials.Get(EnvCloudName))
	}
}

func TestCheckEnv_LegacyAlias(t *testing.T) {
	env := map[string]string{EnvCloudNameLegacy: "legacy-cloud"}

	res := CheckEnv(lookupFrom(env), []Requirement{CloudName})
	if !res.Ok() {
		t.Fatal("alias should satisfy the requirement")
	}
	if res.Credentials.Get(EnvCloudName) != "legacy-cloud" {
		t.Errorf("expected value stored under canonical name, got %v", res.Credentials)
	}
}

func TestCheckEnv_Missing(t *testing.T) {
	env := map[string]string{
		EnvCloudName:   "agency",
		EnvCloudAPIKey: "   ",
	}

	res := CheckEnv(lookupFrom(env), CDNRequirements())
	if res.Ok() {
		t.Fatal("expected missing credentials")
	}

	names := res.MissingNames()
	if len(names) != 2 || names[0] != EnvCloudAPIKey || names[1] != EnvCloudAPISecret {
		t.Errorf("MissingNames() = %v", names)
	}

	err := res.Err()
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("Err() = %v, want ErrMissingCredentials", err)
	}
	if !strings.Contains(err.Error(), EnvCloudAPIKey+", "+EnvCloudAPISecret) {
		t.Errorf("Err() = %q, missing variable names", err)
	}
	if CheckEnv(lookupFrom(env), []Requirement{CloudName}).Err() != nil {
		t.Error("Err() should be nil when satisfied")
	}
}

func TestBlobRequirements(t *testing.T) {
	if reqs := BlobRequirements("vercel"); len(reqs) != 1 || reqs[0].Name != EnvBlobToken {
		t.Errorf("vercel requirements = %v", reqs)
	}
	if reqs := BlobRequirements("s3"); len(reqs) != 2 {
		t.Errorf("s3 requirements = %v", reqs)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	content := "ASSETCTL_TEST_DOTENV=from-file\nASSETCTL_TEST_PRESET=from-file\n"
	if err := os.WriteFile(filepath.Join(dir, ".env.local"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ASSETCTL_TEST_PRESET", "from-process")
	t.Setenv("ASSETCTL_TEST_DOTENV", "")
	os.Unsetenv("ASSETCTL_TEST_DOTENV")

	loaded, err := LoadDotEnv(dir)
	if err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected one file loaded, got %v", loaded)
	}

	if got := os.Getenv("ASSETCTL_TEST_DOTENV"); got != "from-file" {
		t.Errorf("ASSETCTL_TEST_DOTENV = %q", got)
	}
	if got := os.Getenv("ASSETCTL_TEST_PRESET"); got != "from-process" {
		t.Errorf("process environment must win, got %q", got)
	}
}

func TestLoadDotEnv_NoFiles(t *testing.T) {
	loaded, err := LoadDotEnv(t.TempDir())
	if err != nil || len(loaded) != 0 {
		t.Errorf("expected nothing loaded, got %v %v", loaded, err)
	}
}
