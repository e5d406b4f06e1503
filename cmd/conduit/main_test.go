package main

import "testing"

func TestGetConfigPath(t *testing.T) {
	t.Setenv("CONDUIT_CONFIG", "")
	if got := getConfigPath(); got != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", got, defaultConfigPath)
	}

	t.Setenv("CONDUIT_CONFIG", "/etc/conduit/config.yaml")
	if got := getConfigPath(); got != "/etc/conduit/config.yaml" {
		t.Errorf("getConfigPath() = %q, want env override", got)
	}
}
