package logging

import (
	"reflect"
	"testing"
)

func TestRedactConfig_MasksSecretKeys(t *testing.T) {
	r := NewRedactor()
	cfg := map[string]any{
		"db": map[string]any{
			"host":     "db.internal",
			"password": "hunter2",
		},
		"api_key": "sk-123",
		"name":    "app",
	}

	got := r.RedactConfig(cfg)

	if got["api_key"] != Redacted {
		t.Errorf("expected api_key masked, got %v", got["api_key"])
	}
	db := got["db"].(map[string]any)
	if db["password"] != Redacted {
		t.Errorf("expected nested password masked, got %v", db["password"])
	}
	if db["host"] != "db.internal" {
		t.Errorf("expected non-secret value kept, got %v", db["host"])
	}
	if got["name"] != "app" {
		t.Errorf("expected non-secret value kept, got %v", got["name"])
	}
}

func TestRedactConfig_CaseAndSubstringMatching(t *testing.T) {
	r := NewRedactor()
	cfg := map[string]any{
		"DB_PASSWORD":  "x",
		"AccessToken":  "y",
		"clientSecret": "z",
	}

	got := r.RedactConfig(cfg)
	for key, value := range got {
		if value != Redacted {
			t.Errorf("expected %s masked, got %v", key, value)
		}
	}
}

func TestRedactConfig_RecursesIntoLists(t *testing.T) {
	r := NewRedactor()
	cfg := map[string]any{
		"accounts": []any{
			map[string]any{"user": "a", "password": "1"},
			map[string]any{"user": "b", "password": "2"},
		},
	}

	got := r.RedactConfig(cfg)
	accounts := got["accounts"].([]any)
	for _, acct := range accounts {
		m := acct.(map[string]any)
		if m["password"] != Redacted {
			t.Errorf("expected list element password masked, got %v", m["password"])
		}
		if m["user"] == Redacted {
			t.Error("expected user kept")
		}
	}
}

func TestRedactConfig_CustomPatterns(t *testing.T) {
	r := NewRedactor("license")
	cfg := map[string]any{"license_code": "abc", "other": 1}

	got := r.RedactConfig(cfg)
	if got["license_code"] != Redacted {
		t.Errorf("expected custom pattern applied, got %v", got["license_code"])
	}
}

func TestRedactConfig_DoesNotMutateInput(t *testing.T) {
	r := NewRedactor()
	cfg := map[string]any{"password": "keep", "nested": map[string]any{"token": "t"}}

	_ = r.RedactConfig(cfg)

	want := map[string]any{"password": "keep", "nested": map[string]any{"token": "t"}}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("input mutated: %v", cfg)
	}
}
