package x11

import (
	"image"
	"testing"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/patrick9487/Smart-dashboard/pointer"
)

func TestTranslate(t *testing.T) {
	w := &Window{ID: 42}

	tests := []struct {
		name string
		ev   xgb.Event
		want Input
		ok   bool
	}{
		{
			name: "motion",
			ev:   xproto.MotionNotifyEvent{Event: 42, EventX: 10, EventY: 20},
			want: Input{Kind: InputMotion, X: 10, Y: 20},
			ok:   true,
		},
		{
			name: "other window",
			ev:   xproto.MotionNotifyEvent{Event: 7, EventX: 10, EventY: 20},
		},
		{
			name: "press",
			ev:   xproto.ButtonPressEvent{Event: 42, Detail: 3, EventX: 1, EventY: 2},
			want: Input{Kind: InputButton, X: 1, Y: 2, Button: pointer.ButtonRight, Pressed: true},
			ok:   true,
		},
		{
			name: "scroll",
			ev:   xproto.ButtonPressEvent{Event: 42, Detail: 4},
		},
		{
			name: "release",
			ev:   xproto.ButtonReleaseEvent{Event: 42, Detail: 1},
			want: Input{Kind: InputButton, Button: pointer.ButtonLeft},
			ok:   true,
		},
		{
			name: "key",
			ev:   xproto.KeyPressEvent{Event: 42, Detail: 38},
			want: Input{Kind: InputKey, Key: 30, Pressed: true},
			ok:   true,
		},
		{
			name: "partial expose",
			ev:   xproto.ExposeEvent{Window: 42, Count: 2},
		},
		{
			name: "expose",
			ev:   xproto.ExposeEvent{Window: 42},
			want: Input{Kind: InputExpose},
			ok:   true,
		},
		{
			name: "resize",
			ev:   xproto.ConfigureNotifyEvent{Window: 42, Width: 800, Height: 600},
			want: Input{Kind: InputResize, Size: image.Pt(800, 600)},
			ok:   true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, ok := w.translate(test.ev)
			if (got != test.want) || (ok != test.ok) {
				t.Fatalf("translate() = (%+v, %v), want (%+v, %v)", got, ok, test.want, test.ok)
			}
		})
	}
}

func TestWindowInfoMatches(t *testing.T) {
	info := WindowInfo{Title: "Waydroid", Instance: "com.example.camera", Class: "Waydroid"}
	if !info.Matches("com.example.camera") {
		t.Error("window with the package as its instance did not match")
	}
	if info.Matches("com.example.clock") {
		t.Error("unrelated package matched")
	}

	info = WindowInfo{Title: "Clock"}
	if !info.Matches("com.example.clock") {
		t.Error("window titled with the search term did not match")
	}
}
