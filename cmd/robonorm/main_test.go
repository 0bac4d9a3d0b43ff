package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"robonorm/internal/testsupport"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	content := fmt.Sprintf("[paths]\ncatalog_dir = %q\nlog_dir = %q\n",
		filepath.Join(base, "catalog"), filepath.Join(base, "logs"))
	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func requireContains(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Fatalf("output missing %q:\n%s", want, out)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	out, err = runCLI(t, "", "config", "validate", target)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "is valid")
}

func TestScanCommandRecordsRun(t *testing.T) {
	configPath := writeTestConfig(t)
	datasetRoot := t.TempDir()
	testsupport.WriteTask(t, datasetRoot, "pick_cup", 2, 2, 3)
	testsupport.WriteTask(t, datasetRoot, "fold_towel", 1, 2, 3)

	out, err := runCLI(t, configPath, "scan", "--json", datasetRoot)
	if err != nil {
		t.Fatalf("scan: %v\n%s", err, out)
	}

	var view scanView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode scan output: %v\n%s", err, out)
	}
	if len(view.Tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(view.Tasks))
	}
	if view.Tasks[0].Name != "fold_towel" || view.Tasks[1].Name != "pick_cup" {
		t.Fatalf("task order = %s, %s", view.Tasks[0].Name, view.Tasks[1].Name)
	}
	if view.Tasks[1].Episodes != 2 {
		t.Fatalf("pick_cup episodes = %d, want 2", view.Tasks[1].Episodes)
	}
	if view.Tasks[1].Instruction != "Pick Cup" {
		t.Fatalf("instruction = %q, want %q", view.Tasks[1].Instruction, "Pick Cup")
	}

	out, err = runCLI(t, configPath, "catalog", "list")
	if err != nil {
		t.Fatalf("catalog list: %v\n%s", err, out)
	}
	requireContains(t, out, view.RunID)

	out, err = runCLI(t, configPath, "catalog", "show", view.RunID)
	if err != nil {
		t.Fatalf("catalog show: %v\n%s", err, out)
	}
	requireContains(t, out, "pick_cup")
	requireContains(t, out, "Pick Cup")
}

func TestScanCommandConfigPinnedTasks(t *testing.T) {
	base := t.TempDir()
	datasetRoot := t.TempDir()
	testsupport.WriteTask(t, datasetRoot, "pick_cup", 1, 2, 3)
	testsupport.WriteTask(t, datasetRoot, "fold_towel", 1, 2, 3)

	// Task names pinned in the config file must resolve under the dataset
	// root, not the working directory.
	content := fmt.Sprintf("[paths]\ncatalog_dir = %q\nlog_dir = %q\n\n[scan]\ntasks = [\"pick_cup\"]\n",
		filepath.Join(base, "catalog"), filepath.Join(base, "logs"))
	configPath := filepath.Join(base, "config.toml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := runCLI(t, configPath, "scan", "--json", datasetRoot)
	if err != nil {
		t.Fatalf("scan: %v\n%s", err, out)
	}

	var view scanView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode scan output: %v\n%s", err, out)
	}
	if len(view.Tasks) != 1 {
		t.Fatalf("tasks = %d, want only the pinned one", len(view.Tasks))
	}
	if view.Tasks[0].Name != "pick_cup" {
		t.Fatalf("task = %q, want pick_cup", view.Tasks[0].Name)
	}
	if view.Tasks[0].Error != "" {
		t.Fatalf("pinned task failed: %s", view.Tasks[0].Error)
	}
	if view.Tasks[0].Episodes != 1 {
		t.Fatalf("episodes = %d, want 1", view.Tasks[0].Episodes)
	}
}

func TestScanCommandMissingDataset(t *testing.T) {
	configPath := writeTestConfig(t)
	out, err := runCLI(t, configPath, "scan", filepath.Join(t.TempDir(), "absent"))
	if err == nil {
		t.Fatalf("expected scan failure, got:\n%s", out)
	}
}

func TestCatalogListEmpty(t *testing.T) {
	configPath := writeTestConfig(t)
	out, err := runCLI(t, configPath, "catalog", "list")
	if err != nil {
		t.Fatalf("catalog list: %v", err)
	}
	requireContains(t, out, "No scan runs recorded.")
}

func TestCheckCommandPasses(t *testing.T) {
	configPath := writeTestConfig(t)
	datasetRoot := t.TempDir()
	out, err := runCLI(t, configPath, "check", datasetRoot)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "Dataset root")
}
