package cmd

import (
	"testing"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	expected := map[string]bool{
		"register":  false,
		"status":    false,
		"contracts": false,
		"run":       false,
		"history":   false,
		"serve":     false,
		"version":   false,
	}

	for _, sub := range rootCmd.Commands() {
		if _, ok := expected[sub.Name()]; ok {
			expected[sub.Name()] = true
		}
	}

	for name, found := range expected {
		if !found {
			t.Errorf("expected subcommand %q to be registered", name)
		}
	}
}

func TestContractsCommandHasListAndAccept(t *testing.T) {
	names := map[string]bool{}
	for _, sub := range contractsCmd.Commands() {
		names[sub.Name()] = true
	}

	if !names["list"] || !names["accept"] {
		t.Fatalf("expected contracts list and accept subcommands, got %v", names)
	}
}
