// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package runners_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/playbymail/lslopt/internal/compiler"
	"github.com/playbymail/lslopt/internal/reports"
	"github.com/playbymail/lslopt/internal/runners"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestCollectSourcesFindsLSLFilesSorted(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.lsl", "default{state_entry(){}}")
	writeFile(t, dir, "a.lsl", "default{state_entry(){}}")
	writeFile(t, dir, "notes.txt", "ignore me")

	files, err := runners.CollectSources(dir)
	if err != nil {
		t.Fatalf("CollectSources: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 .lsl files, got %v", files)
	}
	if filepath.Base(files[0]) != "a.lsl" || filepath.Base(files[1]) != "b.lsl" {
		t.Errorf("expected lexically sorted [a.lsl b.lsl], got %v", files)
	}
}

func TestCollectSourcesAcceptsSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "one.lsl", "default{state_entry(){}}")

	files, err := runners.CollectSources(path)
	if err != nil {
		t.Fatalf("CollectSources: %v", err)
	}
	if len(files) != 1 || files[0] != path {
		t.Errorf("got %v, want [%s]", files, path)
	}
}

func TestRunFileReturnsCompiledReportOnSuccess(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ok.lsl", "default\n{\n    state_entry()\n    {\n        llSay(0, \"hi\");\n    }\n}\n")

	rep := runners.RunFile(path, compiler.Options{}, nil)
	if rep.Status != reports.Compiled {
		t.Fatalf("expected a Compiled report, got %#v", rep)
	}
	if rep.Filename != path {
		t.Errorf("got Filename %q, want %q", rep.Filename, path)
	}
}

func TestRunFileReturnsFailedReportOnReadError(t *testing.T) {
	rep := runners.RunFile(filepath.Join(t.TempDir(), "missing.lsl"), compiler.Options{}, nil)
	if rep.Status != reports.Failed || rep.Err == "" {
		t.Fatalf("expected a Failed report with an error message, got %#v", rep)
	}
}

func TestRunFileReturnsFailedReportOnParseError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.lsl", "this is not valid lsl {{{")

	rep := runners.RunFile(path, compiler.Options{}, nil)
	if rep.Status != reports.Failed {
		t.Fatalf("expected a Failed report for unparseable source, got %#v", rep)
	}
}
