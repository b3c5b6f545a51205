package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestLineWriterSplitsLines(t *testing.T) {
	var lines []string
	w := newLineWriter(func(line string) { lines = append(lines, line) })

	if _, err := w.Write([]byte("first\nsecond\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if len(lines) != 2 || lines[0] != "first" || lines[1] != "second" {
		t.Errorf("expected [first second], got %v", lines)
	}
}

func TestLineWriterBuffersPartialLines(t *testing.T) {
	var lines []string
	w := newLineWriter(func(line string) { lines = append(lines, line) })

	fmt.Fprint(w, "par")
	if len(lines) != 0 {
		t.Fatalf("partial write should not emit, got %v", lines)
	}
	fmt.Fprint(w, "tial\n")
	if len(lines) != 1 || lines[0] != "partial" {
		t.Errorf("expected [partial], got %v", lines)
	}
}

func TestLineWriterTrimsCarriageReturn(t *testing.T) {
	var lines []string
	w := newLineWriter(func(line string) { lines = append(lines, line) })

	fmt.Fprint(w, "windows line\r\n")
	if len(lines) != 1 || lines[0] != "windows line" {
		t.Errorf("expected [windows line], got %v", lines)
	}
}

func TestValidateInputs(t *testing.T) {
	tests := []struct {
		name    string
		link    string
		dest    string
		wantErr bool
	}{
		{"both present", "https://drive.google.com/drive/folders/abc", "/tmp/out", false},
		{"missing link", "", "/tmp/out", true},
		{"missing dest", "https://drive.google.com/drive/folders/abc", "", true},
		{"both missing", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInputs(tt.link, tt.dest)
			if tt.wantErr && err == nil {
				t.Errorf("expected error for link=%q dest=%q", tt.link, tt.dest)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewModelDefaults(t *testing.T) {
	m := newModel(Options{DefaultDest: "/tmp/mirror"})

	if !m.useSA {
		t.Error("service account toggle should default to on")
	}
	if m.status != statusReady {
		t.Errorf("expected status %q, got %q", statusReady, m.status)
	}
	if m.focus != focusLink {
		t.Errorf("expected initial focus on link field, got %d", m.focus)
	}
	if m.dest.Value() != "/tmp/mirror" {
		t.Errorf("expected preloaded dest, got %q", m.dest.Value())
	}
}

func TestStartRunRejectsEmptyFields(t *testing.T) {
	m := newModel(Options{})
	m = m.setFocus(focusButton)

	next, cmd := m.startRun()
	got := next.(model)
	if got.running {
		t.Error("run should not start with empty fields")
	}
	if cmd != nil {
		t.Error("expected no command for invalid inputs")
	}
	if got.errMsg == "" {
		t.Error("expected a validation message")
	}
}

func TestRunLifecycle(t *testing.T) {
	var gotLink, gotDest string
	var gotSA bool
	opts := Options{
		Run: func(ctx context.Context, link, dest string, useServiceAccount bool, logs io.Writer) error {
			gotLink, gotDest, gotSA = link, dest, useServiceAccount
			fmt.Fprintln(logs, "walking folder")
			return nil
		},
	}
	m := newModel(opts)
	m.link.SetValue("  https://drive.google.com/drive/folders/abc123  ")
	m.dest.SetValue("/tmp/out")
	m = m.setFocus(focusButton)

	next, cmd := m.startRun()
	started := next.(model)
	if !started.running {
		t.Fatal("expected run to start")
	}
	if started.status != statusRunning {
		t.Errorf("expected status %q, got %q", statusRunning, started.status)
	}
	if cmd == nil {
		t.Fatal("expected a run command")
	}

	msg := cmd()
	done, ok := msg.(runDoneMsg)
	if !ok {
		t.Fatalf("expected runDoneMsg, got %T", msg)
	}
	if done.err != nil {
		t.Fatalf("run failed: %v", done.err)
	}
	if gotLink != "https://drive.google.com/drive/folders/abc123" {
		t.Errorf("link not trimmed: %q", gotLink)
	}
	if gotDest != "/tmp/out" || !gotSA {
		t.Errorf("unexpected run arguments: dest=%q sa=%v", gotDest, gotSA)
	}

	select {
	case line := <-started.logCh:
		if line != "walking folder" {
			t.Errorf("unexpected log line %q", line)
		}
	default:
		t.Error("expected log line forwarded to the form")
	}

	updated, _ := started.Update(done)
	final := updated.(model)
	if final.running {
		t.Error("run should be marked finished")
	}
	if final.status != statusDone {
		t.Errorf("expected status %q, got %q", statusDone, final.status)
	}
}

func TestRunFailureSetsStatus(t *testing.T) {
	m := newModel(Options{
		Run: func(ctx context.Context, link, dest string, useServiceAccount bool, logs io.Writer) error {
			return errors.New("authorization failed")
		},
	})
	m.link.SetValue("https://drive.google.com/drive/folders/abc")
	m.dest.SetValue("/tmp/out")

	next, cmd := m.startRun()
	msg := cmd()
	updated, _ := next.(model).Update(msg)
	final := updated.(model)

	if final.status != statusFailed {
		t.Errorf("expected status %q, got %q", statusFailed, final.status)
	}
	if !strings.Contains(final.errMsg, "authorization failed") {
		t.Errorf("expected error message surfaced, got %q", final.errMsg)
	}
}

func TestToggleFlipsServiceAccount(t *testing.T) {
	m := newModel(Options{}).setFocus(focusToggle)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	if next.(model).useSA {
		t.Error("space should turn the toggle off")
	}

	next, _ = next.(model).Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !next.(model).useSA {
		t.Error("enter should turn the toggle back on")
	}
}

func TestFocusCycles(t *testing.T) {
	m := newModel(Options{})

	for i := 0; i < focusCount; i++ {
		if m.focus != i {
			t.Fatalf("step %d: expected focus %d, got %d", i, i, m.focus)
		}
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = next.(model)
	}
	if m.focus != focusLink {
		t.Errorf("focus should wrap back to the link field, got %d", m.focus)
	}
}
