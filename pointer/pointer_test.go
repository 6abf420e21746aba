package pointer

import "testing"

func TestFromX11(t *testing.T) {
	tests := []struct {
		detail byte
		want   Button
		ok     bool
	}{
		{detail: 1, want: ButtonLeft, ok: true},
		{detail: 2, want: ButtonMiddle, ok: true},
		{detail: 3, want: ButtonRight, ok: true},
		{detail: 4},
		{detail: 8, want: ButtonBack, ok: true},
		{detail: 9, want: ButtonForward, ok: true},
	}
	for _, test := range tests {
		got, ok := FromX11(test.detail)
		if (got != test.want) || (ok != test.ok) {
			t.Errorf("FromX11(%v) = (%v, %v), want (%v, %v)", test.detail, got, ok, test.want, test.ok)
		}
	}
}
