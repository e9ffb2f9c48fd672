package conflate

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

type serviceSettings struct {
	Name     string   `json:"name"`
	Port     int      `json:"port"`
	Replicas int      `json:"replicas"`
	Tags     []string `json:"tags"`
}

func TestBindDecodesAggregate(t *testing.T) {
	c := mustConfig(t, WithValue(map[string]any{
		"name": "billing",
		"port": 8080,
		"tags": []any{"critical", "eu"},
	}))

	settings, err := Bind[serviceSettings](c)
	if err != nil {
		t.Fatalf("bind returned error: %v", err)
	}
	if settings.Name != "billing" {
		t.Fatalf("expected name billing, got %q", settings.Name)
	}
	if settings.Port != 8080 {
		t.Fatalf("expected port 8080, got %d", settings.Port)
	}
	if want := []string{"critical", "eu"}; !reflect.DeepEqual(settings.Tags, want) {
		t.Fatalf("mismatch:\nwant: %#v\n got: %#v", want, settings.Tags)
	}
}

func TestBindPreHookRewritesPayload(t *testing.T) {
	c := mustConfig(t, WithValue(map[string]any{
		"name":   "billing",
		"listen": "0.0.0.0:9090",
	}))

	var seenSnapshot string
	settings, err := Bind[serviceSettings](c, BindWithPreHook[serviceSettings](func(snapshotID string, payload map[string]any) (map[string]any, error) {
		seenSnapshot = snapshotID
		raw, _ := payload["listen"].(string)
		_, port, ok := strings.Cut(raw, ":")
		if !ok {
			return nil, fmt.Errorf("invalid listen address %q", raw)
		}
		n, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid listen port %q", port)
		}
		payload["port"] = n
		delete(payload, "listen")
		return payload, nil
	}))
	if err != nil {
		t.Fatalf("bind returned error: %v", err)
	}
	if settings.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", settings.Port)
	}
	if seenSnapshot != c.SnapshotID() {
		t.Fatalf("expected snapshot %q, got %q", c.SnapshotID(), seenSnapshot)
	}
}

func TestBindPreHookErrorPropagates(t *testing.T) {
	c := mustConfig(t, WithValue(map[string]any{"listen": "no-port"}))

	_, err := Bind[serviceSettings](c, BindWithPreHook[serviceSettings](func(_ string, payload map[string]any) (map[string]any, error) {
		return nil, fmt.Errorf("invalid listen address")
	}))
	if err == nil {
		t.Fatalf("expected the hook error to propagate")
	}
	if !strings.Contains(err.Error(), "pre-hook") {
		t.Fatalf("expected a pre-hook failure, got %v", err)
	}
}

func TestBindPostHookFillsDefaults(t *testing.T) {
	c := mustConfig(t, WithValue(map[string]any{"name": "billing"}))

	settings, err := Bind[serviceSettings](c, BindWithPostHook[serviceSettings](func(_ string, value *serviceSettings) error {
		if value.Replicas == 0 {
			value.Replicas = 3
		}
		return nil
	}))
	if err != nil {
		t.Fatalf("bind returned error: %v", err)
	}
	if settings.Replicas != 3 {
		t.Fatalf("expected replicas 3, got %d", settings.Replicas)
	}
}

func TestBindDisallowUnknownFields(t *testing.T) {
	c := mustConfig(t, WithValue(map[string]any{
		"name":       "billing",
		"unexpected": true,
	}))

	if _, err := Bind[serviceSettings](c, BindWithDisallowUnknownFields[serviceSettings]()); err == nil {
		t.Fatalf("expected unknown fields to fail the decode")
	}
}

func TestBindUseNumber(t *testing.T) {
	type counters struct {
		Count any `json:"count"`
	}
	c := mustConfig(t, WithValue(map[string]any{"count": 3}))

	plain, err := Bind[counters](c)
	if err != nil {
		t.Fatalf("bind returned error: %v", err)
	}
	if _, ok := plain.Count.(float64); !ok {
		t.Fatalf("expected a float64 count by default, got %T", plain.Count)
	}

	numeric, err := Bind[counters](c, BindWithUseNumber[counters]())
	if err != nil {
		t.Fatalf("bind returned error: %v", err)
	}
	if got, ok := numeric.Count.(json.Number); !ok || got != json.Number("3") {
		t.Fatalf("expected json.Number 3, got %#v", numeric.Count)
	}
}
