package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	cfg := New()
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.Worker.PoolSize != DefaultWorkerPoolSize {
		t.Errorf("Worker.PoolSize = %d, want %d", cfg.Worker.PoolSize, DefaultWorkerPoolSize)
	}
	if cfg.RPC.Path != DefaultRPCPath {
		t.Errorf("RPC.Path = %q, want %q", cfg.RPC.Path, DefaultRPCPath)
	}
	if cfg.Suspense.DefaultTimeoutMS != DefaultSuspenseTimeoutMS {
		t.Errorf("Suspense.DefaultTimeoutMS = %d, want %d", cfg.Suspense.DefaultTimeoutMS, DefaultSuspenseTimeoutMS)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	content := `{
  "name": "myapp",
  "dev": {"port": 4000},
  "build": {"output": "build", "s3": {"bucket": "assets"}}
}`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "myapp" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Dev.Port != 4000 {
		t.Errorf("Dev.Port = %d", cfg.Dev.Port)
	}
	if cfg.Build.Output != "build" {
		t.Errorf("Build.Output = %q", cfg.Build.Output)
	}
	if !cfg.HasS3() {
		t.Errorf("HasS3() = false, want true")
	}
	// applyDefaults should still have filled unset sections.
	if cfg.RPC.Path != DefaultRPCPath {
		t.Errorf("RPC.Path = %q, want default", cfg.RPC.Path)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), ConfigFileName))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.Name = "roundtrip"
	path := filepath.Join(dir, ConfigFileName)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	reloaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reloaded.Name != "roundtrip" {
		t.Errorf("Name = %q", reloaded.Name)
	}

	cfg.Name = "saved-again"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	reloaded, err = Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Name != "saved-again" {
		t.Errorf("Name after Save() = %q", reloaded.Name)
	}
}

func TestSave_NoPath(t *testing.T) {
	cfg := New()
	if err := cfg.Save(); err == nil {
		t.Fatal("expected error when configPath is unset")
	}
}

func TestValidate(t *testing.T) {
	cfg := New()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	cfg.Dev.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range port")
	}

	cfg = New()
	cfg.Worker.PoolSize = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative pool size")
	}
}

func TestDevAddress(t *testing.T) {
	cfg := New()
	cfg.Dev.Host = "0.0.0.0"
	cfg.Dev.Port = 8080
	if got := cfg.DevAddress(); got != "0.0.0.0:8080" {
		t.Errorf("DevAddress() = %q", got)
	}
}

func TestDevURL(t *testing.T) {
	cfg := New()
	cfg.Dev.Host = "localhost"
	cfg.Dev.Port = 3000
	if got := cfg.DevURL(); got != "http://localhost:3000" {
		t.Errorf("DevURL() = %q", got)
	}
	cfg.Dev.HTTPS = true
	if got := cfg.DevURL(); got != "https://localhost:3000" {
		t.Errorf("DevURL() with HTTPS = %q", got)
	}
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.SaveTo(filepath.Join(dir, ConfigFileName))
	cfg, _ = Load(dir)

	if got := cfg.RoutesPath(); got != filepath.Join(dir, "app/routes") {
		t.Errorf("RoutesPath() = %q", got)
	}
	if got := cfg.ComponentsPath(); got != filepath.Join(dir, "app/components") {
		t.Errorf("ComponentsPath() = %q", got)
	}
	if got := cfg.LogicPath(); got != filepath.Join(dir, "app/logic") {
		t.Errorf("LogicPath() = %q", got)
	}
	if got := cfg.PublicPath(); got != filepath.Join(dir, "public") {
		t.Errorf("PublicPath() = %q", got)
	}
	if got := cfg.OutputPath(); got != filepath.Join(dir, "dist") {
		t.Errorf("OutputPath() = %q", got)
	}
}

func TestHasTailwind(t *testing.T) {
	cfg := New()
	if cfg.HasTailwind() {
		t.Fatal("HasTailwind() should default to false")
	}
	cfg.Tailwind.Enabled = true
	if !cfg.HasTailwind() {
		t.Fatal("HasTailwind() should be true once enabled")
	}
}

func TestTailwindConfigPath(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.SaveTo(filepath.Join(dir, ConfigFileName))
	cfg, _ = Load(dir)

	if got := cfg.TailwindConfigPath(); got != filepath.Join(dir, "tailwind.config.js") {
		t.Errorf("TailwindConfigPath() = %q", got)
	}
	cfg.Tailwind.Config = "custom.tw.js"
	if got := cfg.TailwindConfigPath(); got != filepath.Join(dir, "custom.tw.js") {
		t.Errorf("TailwindConfigPath() with override = %q", got)
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	if Exists(dir) {
		t.Fatal("Exists() should be false before a config is written")
	}
	New().SaveTo(filepath.Join(dir, ConfigFileName))
	if !Exists(dir) {
		t.Fatal("Exists() should be true after a config is written")
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	New().SaveTo(filepath.Join(root, ConfigFileName))

	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	found, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot: %v", err)
	}
	if found != root {
		t.Errorf("FindProjectRoot() = %q, want %q", found, root)
	}

	if _, err := FindProjectRoot(t.TempDir()); err == nil {
		t.Fatal("expected error when no weaver.json exists up the tree")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Dev.Port != DefaultPort {
		t.Errorf("Dev.Port = %d", cfg.Dev.Port)
	}
	if cfg.Worker.PoolSize != DefaultWorkerPoolSize {
		t.Errorf("Worker.PoolSize = %d", cfg.Worker.PoolSize)
	}
	if len(cfg.Dev.Watch) == 0 {
		t.Error("Dev.Watch should default to a non-empty slice")
	}
}

func TestHasS3(t *testing.T) {
	cfg := New()
	if cfg.HasS3() {
		t.Fatal("HasS3() should default to false")
	}
	cfg.Build.S3.Bucket = "my-bucket"
	if !cfg.HasS3() {
		t.Fatal("HasS3() should be true once a bucket is set")
	}
}

func TestItoa(t *testing.T) {
	cases := map[int]string{0: "0", 7: "7", 123: "123", -42: "-42"}
	for n, want := range cases {
		if got := itoa(n); got != want {
			t.Errorf("itoa(%d) = %q, want %q", n, got, want)
		}
	}
}
