package normalize

import (
	"testing"
)

func TestURL(t *testing.T) {
	for _, tc := range []struct {
		in, want string
	}{
		{"", ""},
		{"wss://x.com/y", "wss://x.com/y"},
		{"wss://x.com/y/", "wss://x.com/y"},
		{"http://x.com/y", "ws://x.com/y"},
		{"https://x.com", "wss://x.com"},
		{"wss://x.com/", "wss://x.com"},
		{"x.com", "wss://x.com"},
		{"x.com////", "wss://x.com"},
		{"x.com/?x=23", "wss://x.com?x=23"},
		{"X.Com/Path", "wss://x.com/path"},
		{"localhost:3334", "ws://localhost:3334"},
		{"x.com:443", "wss://x.com"},
		{"x.com:99999", ""},
		{"x.com:1:2", ""},
	} {
		if got := URL(tc.in); got != tc.want {
			t.Errorf("URL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMsg(t *testing.T) {
	m := Msg(Duplicate, "already have %s", "deadbeef")
	if string(m) != "duplicate: already have deadbeef" {
		t.Errorf("unexpected message %q", m)
	}
	if !Duplicate.IsPrefix(m) {
		t.Errorf("expected %q to carry prefix %q", m, Duplicate)
	}
	if Invalid.IsPrefix(m) {
		t.Errorf("did not expect %q to carry prefix %q", m, Invalid)
	}
	m = Msg(nil, "something broke")
	if string(m) != "error: something broke" {
		t.Errorf("unexpected message %q", m)
	}
}
