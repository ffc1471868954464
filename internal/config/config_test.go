package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"MODE", "HTTP_ADDR", "DB_DRIVER", "DB_DSN", "AUTH_JWT_SECRET", "AUTH_JWT_AUDIENCE",
		"CORS_ORIGINS_ONLINE", "CORS_ORIGINS_OFFLINE", "REQUEST_TIMEOUT"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.Mode != ModeOffline || c.HTTPAddr != ":8080" || c.DBDriver != "sqlite" || c.AuthJWTAudience != "authenticated" {
		t.Fatalf("defaults: %+v", c)
	}
	if c.RequestTimeout != 30*time.Second {
		t.Fatalf("timeout = %v", c.RequestTimeout)
	}
	if !reflect.DeepEqual(c.CORSOrigins(), []string{"http://localhost:3000", "http://localhost:3001"}) {
		t.Fatalf("offline origins = %v", c.CORSOrigins())
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("DB_DRIVER", "pgxpool")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("CORS_ORIGINS_ONLINE", " https://a.example , ,https://b.example")
	c := FromEnv()
	if c.DBDriver != "pgxpool" || c.RequestTimeout != 5*time.Second {
		t.Fatalf("overrides: %+v", c)
	}
	if !reflect.DeepEqual(c.CORSOrigins(), []string{"https://a.example", "https://b.example"}) {
		t.Fatalf("online origins = %v", c.CORSOrigins())
	}

	t.Setenv("REQUEST_TIMEOUT", "soon")
	if got := FromEnv().RequestTimeout; got != 30*time.Second {
		t.Fatalf("bad duration should fall back, got %v", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("CLEP_TEST_DOTENV=from-file\nHTTP_ADDR=:9999\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HTTP_ADDR", ":7000")
	t.Setenv("CLEP_TEST_DOTENV", "")
	os.Unsetenv("CLEP_TEST_DOTENV")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("CLEP_TEST_DOTENV"); got != "from-file" {
		t.Fatalf("CLEP_TEST_DOTENV = %q", got)
	}
	if got := os.Getenv("HTTP_ADDR"); got != ":7000" {
		t.Fatalf("existing env overridden: %q", got)
	}
}
