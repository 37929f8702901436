package main

import (
	"testing"
)

func TestVersionCommandExists(t *testing.T) {
	if versionCmd == nil {
		t.Fatal("versionCmd is nil")
	}
	if versionCmd.Use != "version" {
		t.Errorf("versionCmd.Use = %q, want %q", versionCmd.Use, "version")
	}
	if versionCmd.Run == nil {
		t.Error("versionCmd.Run should not be nil")
	}
}

func TestRootCommandWiring(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"resolve", "get", "watch", "version"} {
		if !names[want] {
			t.Errorf("root command is missing subcommand %q", want)
		}
	}

	if flag := rootCmd.PersistentFlags().Lookup("config"); flag == nil {
		t.Error("root command is missing the --config flag")
	}
	if flag := rootCmd.PersistentFlags().Lookup("env"); flag == nil {
		t.Error("root command is missing the --env flag")
	}
}
