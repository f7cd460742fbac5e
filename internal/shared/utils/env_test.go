package utils

import (
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("COSMOS_TEST_VALUE", "vega")
	t.Setenv("COSMOS_TEST_EMPTY", "")

	if got := GetEnv("COSMOS_TEST_VALUE", "x"); got != "vega" {
		t.Errorf("GetEnv = %q, want vega", got)
	}
	if got := GetEnv("COSMOS_TEST_EMPTY", "x"); got != "x" {
		t.Errorf("empty value should fall back, got %q", got)
	}
	if got := GetEnv("COSMOS_TEST_UNSET", "x"); got != "x" {
		t.Errorf("unset value should fall back, got %q", got)
	}
}

func TestGetEnvTyped(t *testing.T) {
	t.Setenv("COSMOS_TEST_INT", "42")
	t.Setenv("COSMOS_TEST_BAD_INT", "forty-two")
	t.Setenv("COSMOS_TEST_BOOL", "true")
	t.Setenv("COSMOS_TEST_SECONDS", "90")

	if got := GetEnvInt("COSMOS_TEST_INT", 1); got != 42 {
		t.Errorf("GetEnvInt = %d, want 42", got)
	}
	if got := GetEnvInt("COSMOS_TEST_BAD_INT", 1); got != 1 {
		t.Errorf("malformed int should fall back, got %d", got)
	}
	if !GetEnvBool("COSMOS_TEST_BOOL", false) {
		t.Error("GetEnvBool = false, want true")
	}
	if got := GetEnvSeconds("COSMOS_TEST_SECONDS", time.Second); got != 90*time.Second {
		t.Errorf("GetEnvSeconds = %v, want 90s", got)
	}
}
