package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestParse(t *testing.T) {
	data := []byte(`{
		// Home page inside the asset bundle.
		"home_page": "ui/home.yaml",
		"widgets": [
			{"type": "clock", "format": "15:04"},
			{"type": "apps",},
		],
	}`)
	c, err := Parse(data, "config.json")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if c.HomePage != "ui/home.yaml" {
		t.Errorf("HomePage = %q", c.HomePage)
	}
	if len(c.Widgets) != 2 || c.Widgets[0].Type() != "clock" || c.Widgets[1].Type() != "apps" {
		t.Errorf("Widgets = %v", c.Widgets)
	}
}

func TestParseYAML(t *testing.T) {
	data := []byte("home_page: ui/home.yaml\nwidgets:\n  - type: weather\n")
	c, err := Parse(data, "config.yml")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if c.HomePage != "ui/home.yaml" || len(c.Widgets) != 1 || c.Widgets[0].Type() != "weather" {
		t.Fatalf("Parse() = %+v", c)
	}
}

func TestLoadOrder(t *testing.T) {
	dir := t.TempDir()
	workDir := filepath.Join(dir, "work")
	err := os.MkdirAll(filepath.Join(dir, "assets"), 0o755)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(filepath.Join(dir, FileName), []byte(`{"home_page": "parent.yaml"}`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	broken := fstest.MapFS{FileName: {Data: []byte("{not json")}}
	c, from, err := Load(Candidates(broken, "", workDir), slog.Default())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.HomePage != "parent.yaml" {
		t.Fatalf("loaded %q from %v, want the parent directory's config", c.HomePage, from)
	}

	embedded := fstest.MapFS{FileName: {Data: []byte(`{"home_page": "embedded.yaml"}`)}}
	c, _, err = Load(Candidates(embedded, "", workDir), slog.Default())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.HomePage != "embedded.yaml" {
		t.Fatalf("HomePage = %q, want the embedded config first", c.HomePage)
	}
}

func TestLoadNotFound(t *testing.T) {
	_, _, err := Load(Candidates(fstest.MapFS{}, t.TempDir(), t.TempDir()), slog.Default())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load() = %v, want ErrNotFound", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Load() = %v, want it to wrap the candidate errors", err)
	}
}

func TestCheckHomePage(t *testing.T) {
	bundle := fstest.MapFS{"ui/home.yaml": {Data: []byte("title: Test\n")}}

	c := &Config{HomePage: "ui/home.yaml"}
	if err := c.CheckHomePage(bundle); err != nil {
		t.Errorf("CheckHomePage() = %v", err)
	}
	c.HomePage = "ui/missing.yaml"
	if err := c.CheckHomePage(bundle); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("CheckHomePage() = %v, want ErrNotExist", err)
	}
	c.HomePage = ""
	if err := c.CheckHomePage(bundle); err == nil {
		t.Error("CheckHomePage() accepted an empty home page")
	}
}

func TestLoadLayout(t *testing.T) {
	bundle := fstest.MapFS{
		"full.yaml":  {Data: []byte("title: Car\nwidth: 800\nheight: 480\n")},
		"split.yaml": {Data: []byte("width: 800\nheight: 480\nembed: {x: 200, y: 0, width: 600, height: 480}\n")},
		"bad.yaml":   {Data: []byte("width: 800\nheight: 480\nembed: {x: 700, y: 0, width: 600, height: 480}\n")},
	}

	l, err := LoadLayout(bundle, "full.yaml")
	if err != nil {
		t.Fatalf("LoadLayout() error: %v", err)
	}
	if l.Title != "Car" {
		t.Errorf("Title = %q", l.Title)
	}
	if l.Embed != (Region{Width: 800, Height: 480}) {
		t.Errorf("default embed region = %+v", l.Embed)
	}

	l, err = LoadLayout(bundle, "split.yaml")
	if err != nil {
		t.Fatalf("LoadLayout() error: %v", err)
	}
	if l.Title != "Smart Dashboard" || l.Embed.Rect().Min.X != 200 {
		t.Errorf("layout = %+v", l)
	}

	if _, err := LoadLayout(bundle, "bad.yaml"); err == nil {
		t.Error("LoadLayout() accepted a region outside the window")
	}
}
