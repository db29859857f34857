package main

import "testing"

func TestDevCmdRegistersPortAndHostFlags(t *testing.T) {
	cmd := devCmd()

	if cmd.Flags().Lookup("port") == nil {
		t.Fatal("expected a --port flag")
	}
	if cmd.Flags().Lookup("host") == nil {
		t.Fatal("expected a --host flag")
	}
}

func TestCompileCmdRequiresExactlyOneArg(t *testing.T) {
	cmd := compileCmd()

	if err := cmd.Args(cmd, nil); err == nil {
		t.Fatal("expected an error when no template path is given")
	}
	if err := cmd.Args(cmd, []string{"card.html"}); err != nil {
		t.Fatalf("expected a single arg to be accepted, got %v", err)
	}
}

func TestVersionCmdShortFlagDefaultsFalse(t *testing.T) {
	cmd := versionCmd()

	short := cmd.Flags().Lookup("short")
	if short == nil {
		t.Fatal("expected a --short flag")
	}
	if short.DefValue != "false" {
		t.Fatalf("short default = %q, want false", short.DefValue)
	}
}
