package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestChunkPaths(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		size  int
		want  [][]string
	}{
		{
			name:  "empty returns nil",
			paths: nil,
			size:  3,
			want:  nil,
		},
		{
			name:  "zero size keeps one page",
			paths: []string{"a", "b", "c"},
			size:  0,
			want:  [][]string{{"a", "b", "c"}},
		},
		{
			name:  "fewer than size keeps one page",
			paths: []string{"a", "b"},
			size:  5,
			want:  [][]string{{"a", "b"}},
		},
		{
			name:  "exact multiple splits evenly",
			paths: []string{"a", "b", "c", "d"},
			size:  2,
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "remainder goes to a short last page",
			paths: []string{"a", "b", "c", "d", "e"},
			size:  2,
			want:  [][]string{{"a", "b"}, {"c", "d"}, {"e"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chunkPaths(tt.paths, tt.size)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("chunkPaths(%v, %d) = %v, want %v", tt.paths, tt.size, got, tt.want)
			}
		})
	}
}

func TestCollectPaths_expandsDirectories(t *testing.T) {
	dir := t.TempDir()
	docs := filepath.Join(dir, "docs")
	if err := os.MkdirAll(filepath.Join(docs, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.txt", "b.pdf"} {
		if err := os.WriteFile(filepath.Join(docs, name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(docs, "sub", "c.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	loose := filepath.Join(dir, "loose.txt")
	if err := os.WriteFile(loose, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.xyz")

	got, err := collectPaths([]string{docs, loose, missing}, false)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(docs, "a.txt"),
		filepath.Join(docs, "b.pdf"),
		loose,
		missing,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("collectPaths() = %v, want %v", got, want)
	}
}

func TestCollectPaths_recursive(t *testing.T) {
	dir := t.TempDir()
	docs := filepath.Join(dir, "docs")
	if err := os.MkdirAll(filepath.Join(docs, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(docs, "a.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(docs, "sub", "c.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := collectPaths([]string{docs}, true)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(docs, "a.txt"),
		filepath.Join(docs, "sub", "c.txt"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("collectPaths() = %v, want %v", got, want)
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: "localhost"
  port: 8080
storage:
  database_path: "test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// On macOS, cwd can be /private/var/... while configPath from t.TempDir() is /var/...; compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s (canon %s), want %s (canon %s)", resolved, resolvedCanon, configPath, configPathCanon)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  database_path: "test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
}

func TestLoadConfig_fallsBackToDefaultsWhenNoFile(t *testing.T) {
	dir := t.TempDir()
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != "" {
		t.Errorf("resolved path = %q, want empty for built-in defaults", resolved)
	}
	if cfg == nil || cfg.Server.Port == 0 {
		t.Errorf("defaults should carry a server port, got %+v", cfg)
	}
}

func TestLoadConfig_explicitMissingPathErrors(t *testing.T) {
	dir := t.TempDir()
	_, _, err := loadConfig(filepath.Join(dir, "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for explicitly given missing config")
	}
}
