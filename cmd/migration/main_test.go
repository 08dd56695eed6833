package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/riskibarqy/score-predictor/internal/config"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
)

func TestParseSteps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    int
		wantErr bool
	}{
		{name: "default one", want: 1},
		{name: "explicit", args: []string{" 3 "}, want: 3},
		{name: "zero", args: []string{"0"}, wantErr: true},
		{name: "not a number", args: []string{"many"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseSteps(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: err=%v wantErr=%t", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("unexpected steps: got=%d want=%d", got, tt.want)
			}
		})
	}
}

func TestParseVersionAndTarget(t *testing.T) {
	t.Parallel()

	if got, err := parseVersion("12"); err != nil || got != 12 {
		t.Fatalf("unexpected version: got=%d err=%v", got, err)
	}
	if _, err := parseVersion("-1"); err == nil {
		t.Fatalf("expected negative version error")
	}
	if got, err := parseTarget("7"); err != nil || got != 7 {
		t.Fatalf("unexpected target: got=%d err=%v", got, err)
	}
	if _, err := parseTarget("-7"); err == nil {
		t.Fatalf("expected negative target error")
	}
}

func TestResolveMigrationsDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "000001_init.up.sql")
	if err := os.WriteFile(file, []byte("SELECT 1;"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := resolveMigrationsDir([]string{"", filepath.Join(dir, "missing"), file, dir})
	if err != nil {
		t.Fatalf("resolve dir: %v", err)
	}
	if got != dir {
		t.Fatalf("unexpected dir: got=%s want=%s", got, dir)
	}

	if _, err := resolveMigrationsDir([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Fatalf("expected error when nothing exists")
	}
}

func TestRun_RejectsUnknownCommand(t *testing.T) {
	t.Parallel()

	cfg := config.MigrationConfig{DBURL: "postgres://localhost/score_predictor"}
	for _, args := range [][]string{nil, {"sideways"}} {
		err := run(args, cfg, io.Discard, logging.NewNop())
		if !errors.Is(err, errUsage) {
			t.Fatalf("expected usage error for %v, got %v", args, err)
		}
	}
}
