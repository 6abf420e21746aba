package shmimage

import (
	"image/color"
	"testing"
)

func TestColorModels(t *testing.T) {
	tests := []struct {
		name  string
		model color.Model
		in    color.Color
		want  ARGB8888Color
	}{
		{name: "opaque", model: ARGB8888Model, in: color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xFF}, want: 0xFF102030},
		{name: "premultiplied", model: ARGB8888Model, in: color.NRGBA{R: 0xFF, A: 0x80}, want: 0x80800000},
		{name: "passthrough", model: ARGB8888Model, in: ARGB8888Color(0x40102030), want: 0x40102030},
		{name: "xrgb forces alpha", model: XRGB8888Model, in: color.RGBA{G: 0x40, A: 0x40}, want: 0xFF004000},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := test.model.Convert(test.in).(ARGB8888Color)
			if got != test.want {
				t.Fatalf("Convert(%v) = %#08x, want %#08x", test.in, uint32(got), uint32(test.want))
			}
		})
	}

	r, g, b, a := ARGB8888Color(0x80402010).RGBA()
	if (r != 0x4040) || (g != 0x2020) || (b != 0x1010) || (a != 0x8080) {
		t.Fatalf("RGBA() = %#x %#x %#x %#x", r, g, b, a)
	}
}
