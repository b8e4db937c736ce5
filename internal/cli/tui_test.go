package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/stackdiagram/pkg/errors"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m ManifestPickerModel, keys ...string) (ManifestPickerModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(ManifestPickerModel)
	}
	return m, cmd
}

func TestManifestPickerNavigation(t *testing.T) {
	m := NewManifestPickerModel([]string{"a.yaml", "b.hcl", "c.toml"})

	m, _ = press(m, "down", "j", "down")
	if m.Cursor != 2 {
		t.Errorf("cursor = %d, want 2 (clamped at last entry)", m.Cursor)
	}
	m, _ = press(m, "up", "k", "k")
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want 0 (clamped at first entry)", m.Cursor)
	}

	m, cmd := press(m, "down", "enter")
	if m.Selected != "b.hcl" {
		t.Errorf("selected = %q, want b.hcl", m.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit the picker")
	}
}

func TestManifestPickerQuit(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		m, cmd := press(NewManifestPickerModel([]string{"a.yaml"}), k)
		if m.Selected != "" {
			t.Errorf("%s: selected = %q, want none", k, m.Selected)
		}
		if cmd == nil {
			t.Errorf("%s should quit the picker", k)
		}
	}
}

func TestManifestPickerScrolls(t *testing.T) {
	paths := make([]string, 10)
	for i := range paths {
		paths[i] = string(rune('a'+i)) + ".yaml"
	}
	m := NewManifestPickerModel(paths)

	next, _ := m.Update(tea.WindowSizeMsg{Height: 3})
	m = next.(ManifestPickerModel)
	if m.Height != 5 {
		t.Fatalf("height = %d, want minimum of 5", m.Height)
	}

	m, _ = press(m, "down", "down", "down", "down", "down", "down")
	if m.Offset != 2 {
		t.Errorf("offset = %d, want 2", m.Offset)
	}
	view := m.View()
	if strings.Contains(view, "a.yaml") || !strings.Contains(view, "g.yaml") {
		t.Errorf("view should scroll past a.yaml and show g.yaml:\n%s", view)
	}
	if !strings.Contains(view, "[7/10]") {
		t.Errorf("view missing position:\n%s", view)
	}
}

func TestManifestPickerView(t *testing.T) {
	env := newTestEnv(t)
	path := env.write(t, "web.yaml", webManifest)

	m := NewManifestPickerModel([]string{path})
	view := m.View()
	for _, want := range []string{"Select Manifest", "web.yaml", "yaml", "just now"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestFormatSize(t *testing.T) {
	tests := map[int64]string{
		0:           "0 B",
		512:         "512 B",
		2048:        "2.0 KiB",
		3 * 1 << 20: "3.0 MiB",
	}
	for n, want := range tests {
		if got := formatSize(n); got != want {
			t.Errorf("formatSize(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		t    time.Time
		want string
	}{
		{time.Time{}, "—"},
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-2 * 24 * time.Hour), "2d ago"},
		{now.Add(-30 * 24 * time.Hour), "May 16, 2025"},
	}
	for _, tt := range tests {
		if got := formatRelativeTime(tt.t, now); got != tt.want {
			t.Errorf("formatRelativeTime(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestResolveManifests(t *testing.T) {
	env := newTestEnv(t)
	a := env.write(t, "a.yaml", webManifest)
	b := env.write(t, "b.hcl", "")
	env.write(t, "notes.md", "")

	got, err := resolveManifests(context.Background(), []string{env.dir}, true)
	if err != nil {
		t.Fatalf("resolveManifests() error: %v", err)
	}
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("resolveManifests(dir) = %v, want [%s %s]", got, a, b)
	}

	got, err = resolveManifests(context.Background(), []string{a, "-"}, false)
	if err != nil || len(got) != 2 || got[1] != "-" {
		t.Errorf("resolveManifests(file, -) = %v, %v", got, err)
	}

	_, err = resolveManifests(context.Background(), []string{env.dir + "/missing.yaml"}, false)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadManifestStdin(t *testing.T) {
	m, err := loadManifest("-", "", strings.NewReader(webManifest))
	if err != nil {
		t.Fatalf("loadManifest() error: %v", err)
	}
	if m.Name != "Web" {
		t.Errorf("name = %q, want Web", m.Name)
	}

	_, err = loadManifest("-", "xml", strings.NewReader(webManifest))
	if err == nil {
		t.Error("unknown syntax should fail")
	}
}
