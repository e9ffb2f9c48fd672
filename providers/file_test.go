package providers

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestFileLoadsJSON(t *testing.T) {
	path := writeTempFile(t, "app.json", `{"server": {"host": "localhost", "port": 8080}, "tags": ["a", "b"]}`)

	fragment, err := File(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := map[string]any{
		"server": map[string]any{"host": "localhost", "port": float64(8080)},
		"tags":   []any{"a", "b"},
	}
	if !reflect.DeepEqual(want, fragment) {
		t.Fatalf("fragment mismatch:\nwant: %#v\n got: %#v", want, fragment)
	}
}

func TestFileLoadsYAML(t *testing.T) {
	path := writeTempFile(t, "app.yaml", strings.Join([]string{
		"server:",
		"  host: localhost",
		"  port: 8080",
		"features:",
		"  - auth",
		"  - metrics",
		"debug: true",
	}, "\n"))

	fragment, err := File(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := map[string]any{
		"server":   map[string]any{"host": "localhost", "port": 8080},
		"features": []any{"auth", "metrics"},
		"debug":    true,
	}
	if !reflect.DeepEqual(want, fragment) {
		t.Fatalf("fragment mismatch:\nwant: %#v\n got: %#v", want, fragment)
	}
}

func TestFileLoadsTOML(t *testing.T) {
	path := writeTempFile(t, "app.toml", strings.Join([]string{
		`released = 2024-01-15T10:00:00Z`,
		``,
		`[server]`,
		`host = "localhost"`,
		`port = 8080`,
	}, "\n"))

	fragment, err := File(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	released, ok := fragment["released"].(time.Time)
	if !ok || !released.Equal(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected released to decode as time.Time, got %#v", fragment["released"])
	}
	server, ok := fragment["server"].(map[string]any)
	if !ok {
		t.Fatalf("expected server table as mapping, got %#v", fragment["server"])
	}
	if server["host"] != "localhost" || server["port"] != int64(8080) {
		t.Fatalf("unexpected server table: %#v", server)
	}
}

func TestFileFormatOverride(t *testing.T) {
	path := writeTempFile(t, "app.conf", "host: localhost\n")

	fragment, err := File(path, FileWithFormat("yaml")).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fragment["host"] != "localhost" {
		t.Fatalf("expected yaml parse, got %#v", fragment)
	}
}

func TestFileMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.json")

	if _, err := File(missing).Load(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}

	fragment, err := File(missing, FileWithOptional()).Load(context.Background())
	if err != nil {
		t.Fatalf("optional load: %v", err)
	}
	if len(fragment) != 0 {
		t.Fatalf("expected empty fragment, got %#v", fragment)
	}
}

func TestFileRejectsNonMappingDocument(t *testing.T) {
	path := writeTempFile(t, "list.yaml", "- a\n- b\n")

	_, err := File(path).Load(context.Background())
	if err == nil {
		t.Fatal("expected error for non-mapping document")
	}
	if !strings.Contains(err.Error(), "must be a mapping") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
