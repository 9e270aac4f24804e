package cli

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseRequiresRoot(t *testing.T) {
	_, err := Parse(newFlagSet(), nil)
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("Expected ErrUsage, got %v", err)
	}
	if code := ExitCode(err); code != ExitUsage {
		t.Errorf("Expected exit code %d, got %d", ExitUsage, code)
	}
}

func TestParseFlags(t *testing.T) {
	opts, err := Parse(newFlagSet(), []string{"-verbose", "-config", "grid.yaml", "/data/route3"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if opts.Root != "/data/route3" {
		t.Errorf("Expected root /data/route3, got %s", opts.Root)
	}
	if !opts.Verbose {
		t.Error("Expected verbose to be set")
	}
	if opts.ConfigPath != "grid.yaml" {
		t.Errorf("Expected config grid.yaml, got %s", opts.ConfigPath)
	}
}

func TestParseWriteConfigWithoutRoot(t *testing.T) {
	opts, err := Parse(newFlagSet(), []string{"-write-config", "-config", "grid.yaml"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !opts.WriteConfig || opts.Root != "" {
		t.Errorf("Expected write-config without root, got %+v", opts)
	}
}

func TestRequireDir(t *testing.T) {
	root := t.TempDir()

	_, err := RequireDir(root, MaskDir)
	if !errors.Is(err, ErrMissingInput) {
		t.Fatalf("Expected ErrMissingInput, got %v", err)
	}
	if code := ExitCode(err); code != ExitFailure {
		t.Errorf("Expected exit code %d, got %d", ExitFailure, code)
	}

	if err := os.Mkdir(filepath.Join(root, MaskDir), 0755); err != nil {
		t.Fatalf("Failed to create mask dir: %v", err)
	}
	dir, err := RequireDir(root, MaskDir)
	if err != nil {
		t.Fatalf("RequireDir failed: %v", err)
	}
	if dir != filepath.Join(root, MaskDir) {
		t.Errorf("Unexpected dir %s", dir)
	}
}

func TestEnsureDir(t *testing.T) {
	root := t.TempDir()
	dir, err := EnsureDir(root, HorizonDir)
	if err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("Expected %s to be a directory", dir)
	}

	// second call is a no-op
	if _, err := EnsureDir(root, HorizonDir); err != nil {
		t.Errorf("EnsureDir on existing dir failed: %v", err)
	}
}

func TestExitCodeOK(t *testing.T) {
	if code := ExitCode(nil); code != ExitOK {
		t.Errorf("Expected %d, got %d", ExitOK, code)
	}
}
