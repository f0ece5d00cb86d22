package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCommand executes the CLI against a throwaway config and returns its
// combined output.
func runCommand(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", configPath, "--actor", "tester"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeTestConfig(t *testing.T) string {
	t.Helper()

	base := t.TempDir()
	path := filepath.Join(base, "hylla.toml")
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[logging]
format = "console"
level = "error"
`, filepath.Join(base, "data"), filepath.Join(base, "logs"))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	return path
}

func TestAddSetHistoryRoundTrip(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, err := runCommand(t, cfgPath, "add", "Heat", "--year", "1995")
	if err != nil {
		t.Fatalf("add: %v\n%s", err, out)
	}
	if !strings.Contains(out, `Added "Heat"`) {
		t.Fatalf("unexpected add output: %q", out)
	}

	out, err = runCommand(t, cfgPath, "set", "Heat", "owns_physical", "yes")
	if err != nil {
		t.Fatalf("set: %v\n%s", err, out)
	}
	if !strings.Contains(out, "owns_physical set to true (version 1)") {
		t.Fatalf("unexpected set output: %q", out)
	}

	out, err = runCommand(t, cfgPath, "rate", "Heat", "9.0")
	if err != nil {
		t.Fatalf("rate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "rating set to 9.0 (version 2)") {
		t.Fatalf("unexpected rate output: %q", out)
	}

	out, err = runCommand(t, cfgPath, "history", "Heat")
	if err != nil {
		t.Fatalf("history: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Owns Physical: 'false' → 'true'") || !strings.Contains(out, "Rating: 'unrated' → '9.0'") {
		t.Fatalf("history missing changes: %q", out)
	}
	if !strings.Contains(out, "tester") {
		t.Fatalf("history missing actor: %q", out)
	}
}

func TestSetSameValueIsNoOp(t *testing.T) {
	cfgPath := writeTestConfig(t)

	if out, err := runCommand(t, cfgPath, "add", "Alien"); err != nil {
		t.Fatalf("add: %v\n%s", err, out)
	}
	if out, err := runCommand(t, cfgPath, "set", "Alien", "owns_digital", "true"); err != nil {
		t.Fatalf("set: %v\n%s", err, out)
	}

	out, err := runCommand(t, cfgPath, "set", "Alien", "owns_digital", "true")
	if err != nil {
		t.Fatalf("repeat set: %v\n%s", err, out)
	}
	if !strings.Contains(out, "nothing recorded") {
		t.Fatalf("expected no-op message, got %q", out)
	}
}

func TestSetRejectsBadValues(t *testing.T) {
	cfgPath := writeTestConfig(t)

	if out, err := runCommand(t, cfgPath, "add", "Ran"); err != nil {
		t.Fatalf("add: %v\n%s", err, out)
	}

	if _, err := runCommand(t, cfgPath, "rate", "Ran", "11"); err == nil {
		t.Fatal("expected out-of-range rating to fail")
	}
	if _, err := runCommand(t, cfgPath, "set", "Ran", "owns_physical", "maybe"); err == nil {
		t.Fatal("expected bad boolean to fail")
	}
	if _, err := runCommand(t, cfgPath, "set", "Ran", "color", "blue"); err == nil {
		t.Fatal("expected unknown field to fail")
	}
}

func TestRemoveRequiresConfirmation(t *testing.T) {
	cfgPath := writeTestConfig(t)

	if out, err := runCommand(t, cfgPath, "add", "Stalker"); err != nil {
		t.Fatalf("add: %v\n%s", err, out)
	}

	if _, err := runCommand(t, cfgPath, "remove", "Stalker"); err == nil {
		t.Fatal("expected remove without --yes to fail")
	}
	out, err := runCommand(t, cfgPath, "remove", "Stalker", "--yes")
	if err != nil {
		t.Fatalf("remove --yes: %v\n%s", err, out)
	}
	if !strings.Contains(out, `Removed "Stalker"`) {
		t.Fatalf("unexpected remove output: %q", out)
	}
}

func TestWishlistPromoteFlow(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, err := runCommand(t, cfgPath, "wishlist", "add", "Brazil", "--priority", "high")
	if err != nil {
		t.Fatalf("wishlist add: %v\n%s", err, out)
	}
	if !strings.Contains(out, "#1") {
		t.Fatalf("unexpected wishlist add output: %q", out)
	}

	out, err = runCommand(t, cfgPath, "wishlist", "promote", "1")
	if err != nil {
		t.Fatalf("promote: %v\n%s", err, out)
	}
	if !strings.Contains(out, `Promoted "Brazil"`) {
		t.Fatalf("unexpected promote output: %q", out)
	}

	out, err = runCommand(t, cfgPath, "show", "Brazil")
	if err != nil {
		t.Fatalf("show: %v\n%s", err, out)
	}
	if !strings.Contains(out, "version:   0") {
		t.Fatalf("promoted entry should start at version 0: %q", out)
	}
}

func TestReconcileCleanCatalog(t *testing.T) {
	cfgPath := writeTestConfig(t)

	if out, err := runCommand(t, cfgPath, "add", "Heat"); err != nil {
		t.Fatalf("add: %v\n%s", err, out)
	}
	out, err := runCommand(t, cfgPath, "reconcile")
	if err != nil {
		t.Fatalf("reconcile: %v\n%s", err, out)
	}
	if !strings.Contains(out, "State and ledger agree") {
		t.Fatalf("unexpected reconcile output: %q", out)
	}
}

func TestUnknownEntry(t *testing.T) {
	cfgPath := writeTestConfig(t)

	_, err := runCommand(t, cfgPath, "show", "Nonexistent")
	if err == nil {
		t.Fatal("expected error for unknown entry")
	}
	if !strings.Contains(err.Error(), "no entry matching") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "config.toml")

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v\n%s", err, out.String())
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config not written: %v", err)
	}

	// A second init must refuse to overwrite.
	cmd = newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected second init to fail")
	}
}

func TestParseTimeFlag(t *testing.T) {
	if _, err := parseTimeFlag("2026-08-01"); err != nil {
		t.Fatalf("date form rejected: %v", err)
	}
	if _, err := parseTimeFlag("72h"); err != nil {
		t.Fatalf("duration form rejected: %v", err)
	}
	if ts, err := parseTimeFlag(""); err != nil || !ts.IsZero() {
		t.Fatalf("empty input should be unbounded, got %v, %v", ts, err)
	}
	if _, err := parseTimeFlag("yesterday"); err == nil {
		t.Fatal("expected error for unparseable input")
	}
}
