package config

import (
	"fmt"
	"image"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// Layout is the dashboard's home page: the window it opens and the
// region embedded applications are shown in.
type Layout struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Embed  Region `yaml:"embed"`
}

type Region struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Size returns the window size.
func (l *Layout) Size() image.Point {
	return image.Pt(l.Width, l.Height)
}

// LoadLayout reads the home page from bundle. A missing embed region
// covers the whole window.
func LoadLayout(bundle fs.FS, name string) (*Layout, error) {
	data, err := fs.ReadFile(bundle, name)
	if err != nil {
		return nil, fmt.Errorf("read home page: %w", err)
	}

	layout := Layout{
		Title:  "Smart Dashboard",
		Width:  1280,
		Height: 720,
	}
	err = yaml.Unmarshal(data, &layout)
	if err != nil {
		return nil, fmt.Errorf("parse home page %v: %w", name, err)
	}
	if (layout.Width <= 0) || (layout.Height <= 0) {
		return nil, fmt.Errorf("home page %v: invalid window size %vx%v", name, layout.Width, layout.Height)
	}

	if layout.Embed == (Region{}) {
		layout.Embed = Region{Width: layout.Width, Height: layout.Height}
	}
	window := image.Rectangle{Max: layout.Size()}
	if !layout.Embed.Rect().In(window) {
		return nil, fmt.Errorf("home page %v: embed region %v is outside the window", name, layout.Embed.Rect())
	}
	return &layout, nil
}
