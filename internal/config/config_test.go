package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("CARDFAN_CONFIG", "")
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)
	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.Cache.Backend != BackendFile {
		t.Errorf("Cache.Backend = %q, want file", c.Cache.Backend)
	}
	if want := filepath.Join(dir, "cache", "cardfan"); c.Cache.Dir != want {
		t.Errorf("Cache.Dir = %q, want %q", c.Cache.Dir, want)
	}
	if c.Server.Addr != "127.0.0.1:8080" || c.Render.Style != "simple" || c.Render.Scale != 1 {
		t.Errorf("defaults = %+v", c)
	}
	if !slices.Equal(c.Render.Formats, []string{"svg"}) {
		t.Errorf("Render.Formats = %v, want [svg]", c.Render.Formats)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "cardfan.toml")
	doc := `
[render]
style = "shaded"
scale = 2.0

[server]
addr = "0.0.0.0:9000"
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CARDFAN_CONFIG", path)
	t.Setenv("CARDFAN_SERVER_ADDR", "127.0.0.1:9999")

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.Render.Style != "shaded" || c.Render.Scale != 2 {
		t.Errorf("file values not applied: %+v", c.Render)
	}
	if c.Server.Addr != "127.0.0.1:9999" {
		t.Errorf("Server.Addr = %q, env should win", c.Server.Addr)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"none", func(c *Config) { c.Cache.Backend = BackendNone }, false},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, true},
		{"redis without addr", func(c *Config) { c.Cache.Backend = BackendRedis }, true},
		{"redis", func(c *Config) { c.Cache.Backend, c.Redis.Addr = BackendRedis, "localhost:6379" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			c := Default()
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	dir := isolate(t)
	c := Default()
	c.Render.Style = "outlined"
	c.Render.Labels = true
	c.Cache.Backend = BackendNone
	if err := Save(c); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config", "cardfan", "config.toml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.Render.Style != "outlined" || !got.Render.Labels || got.Cache.Backend != BackendNone {
		t.Errorf("Load() after Save = %+v", got)
	}
}

func TestCacheDirFallsBackToHome(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	home := t.TempDir()
	t.Setenv("HOME", home)
	if got, want := CacheDir(), filepath.Join(home, ".cache", "cardfan"); got != want {
		t.Errorf("CacheDir() = %q, want %q", got, want)
	}
}
