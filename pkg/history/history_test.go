package history

import (
	"encoding/json"
	"testing"
)

func TestToken(t *testing.T) {
	if i, ok := Selected(2).Selection(); !ok || i != 2 {
		t.Errorf("Selected(2).Selection() = %d, %v", i, ok)
	}
	if _, ok := None().Selection(); ok {
		t.Errorf("None() has a selection")
	}
	if got := Selected(0).Title(); got != "1" {
		t.Errorf("Title = %q, want 1", got)
	}

	bs, err := json.Marshal(None())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(bs) != `{"index":null}` {
		t.Errorf("None() JSON = %s", bs)
	}

	var tok Token
	if err := json.Unmarshal([]byte(`{"index":4}`), &tok); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if i, ok := tok.Selection(); !ok || i != 4 {
		t.Errorf("decoded selection = %d, %v", i, ok)
	}
}

func TestPathFor(t *testing.T) {
	tests := []struct {
		path string
		tok  Token
		want string
	}{
		{"/trips/iceland", Selected(2), "/trips/iceland/3"},
		{"/trips/iceland/", Selected(0), "/trips/iceland/1"},
		{"/trips/iceland/7", Selected(3), "/trips/iceland/4"},
		{"/trips/iceland/7", None(), "/trips/iceland"},
		{"/7", None(), "/"},
	}
	for _, tc := range tests {
		if got := PathFor(tc.path, tc.tok); got != tc.want {
			t.Errorf("PathFor(%q, %q) = %q, want %q", tc.path, tc.tok.Title(), got, tc.want)
		}
	}
}

func TestIndexFromPath(t *testing.T) {
	tests := []struct {
		path string
		want int
		ok   bool
	}{
		{"/trips/iceland/3", 2, true},
		{"/trips/iceland/3/", 2, true},
		{"/trips/iceland", 0, false},
		{"/trips/iceland/0", 0, false},
		{"/trips/2024x", 0, false},
	}
	for _, tc := range tests {
		got, ok := IndexFromPath(tc.path)
		if got != tc.want || ok != tc.ok {
			t.Errorf("IndexFromPath(%q) = %d, %v; want %d, %v", tc.path, got, ok, tc.want, tc.ok)
		}
	}
}

func TestStack(t *testing.T) {
	s := NewStack("/album")
	var popped []string
	s.OnPop(func(tok Token) { popped = append(popped, tok.Title()) })

	s.Push(Selected(0))
	s.Push(Selected(1))
	if got := s.Current().Path; got != "/album/2" {
		t.Errorf("path = %q, want /album/2", got)
	}

	if !s.Back() || !s.Back() {
		t.Fatalf("Back failed")
	}
	if s.Back() {
		t.Errorf("Back past the first entry succeeded")
	}
	if !s.Forward() {
		t.Fatalf("Forward failed")
	}

	// Pushing from the middle discards forward entries.
	s.Push(Selected(5))
	if s.Len() != 3 || s.Forward() {
		t.Errorf("forward entries survived a push: len=%d", s.Len())
	}

	want := []string{"1", "", "1"}
	if len(popped) != len(want) {
		t.Fatalf("popped = %q, want %q", popped, want)
	}
	for i := range want {
		if popped[i] != want[i] {
			t.Errorf("popped[%d] = %q, want %q", i, popped[i], want[i])
		}
	}
}

func TestNewStackDeepLink(t *testing.T) {
	s := NewStack("/album/4")
	if i, ok := s.Current().Token.Selection(); !ok || i != 3 {
		t.Errorf("initial selection = %d, %v", i, ok)
	}
}
