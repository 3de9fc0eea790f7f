package config

import (
	"reflect"
	"testing"
)

func TestFlatten_Nested(t *testing.T) {
	in := map[string]any{
		"data_dir": "/tmp/x",
		"poll": map[string]any{
			"window":           10,
			"interval_seconds": 15,
		},
	}
	got := Flatten(in)
	want := map[string]any{
		"data_dir":              "/tmp/x",
		"poll.window":           10,
		"poll.interval_seconds": 15,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten = %v, want %v", got, want)
	}
}

func TestFlatten_EmptyMap(t *testing.T) {
	got := Flatten(map[string]any{})
	if len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestUnflatten_Nested(t *testing.T) {
	in := map[string]any{
		"frames.max":       5,
		"frames.retention": 72,
		"telegram.token":   "abc",
		"log_level":        "info",
	}
	got := Unflatten(in)
	want := map[string]any{
		"frames": map[string]any{
			"max":       5,
			"retention": 72,
		},
		"telegram": map[string]any{
			"token": "abc",
		},
		"log_level": "info",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unflatten = %v, want %v", got, want)
	}
}

func TestRoundTrip_FlattenUnflatten(t *testing.T) {
	cfg := defaults()
	m, err := ToMap(cfg)
	if err != nil {
		t.Fatal(err)
	}
	back := Unflatten(Flatten(m))
	if !reflect.DeepEqual(m, back) {
		t.Errorf("round trip mismatch:\n%v\n%v", m, back)
	}
}

func TestMaskSecrets(t *testing.T) {
	flat := map[string]any{
		"telegram.token": "bot-token-9876",
		"log_level":      "info",
	}
	got := MaskSecrets(flat)
	if got["telegram.token"] != "***9876" {
		t.Errorf("expected masked token, got %v", got["telegram.token"])
	}
	if got["log_level"] != "info" {
		t.Errorf("non-secret should be unchanged, got %v", got["log_level"])
	}
}

func TestMaskSecrets_ShortAndEmpty(t *testing.T) {
	got := MaskSecrets(map[string]any{"telegram.token": "ab"})
	if got["telegram.token"] != "***ab" {
		t.Errorf("expected ***ab, got %v", got["telegram.token"])
	}
	got = MaskSecrets(map[string]any{"telegram.token": ""})
	if got["telegram.token"] != "" {
		t.Errorf("empty secret should stay empty, got %v", got["telegram.token"])
	}
}

func TestIsSecretKey(t *testing.T) {
	if !IsSecretKey("telegram.token") {
		t.Error("telegram.token should be secret")
	}
	if IsSecretKey("poll.window") {
		t.Error("poll.window should not be secret")
	}
}
