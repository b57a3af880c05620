package source

import "testing"

func TestSpanValid(t *testing.T) {
	tests := []struct {
		span Span
		want bool
	}{
		{Span{0, 0}, true},
		{Span{0, 5}, true},
		{Span{3, 3}, true},
		{Span{5, 3}, false},
		{Span{-1, 2}, false},
	}

	for _, tt := range tests {
		if got := tt.span.Valid(); got != tt.want {
			t.Errorf("Span(%v).Valid() = %v, want %v", tt.span, got, tt.want)
		}
	}
}

func TestSpanContains(t *testing.T) {
	outer := Span{0, 10}
	inner := Span{2, 5}
	if !outer.Contains(inner) {
		t.Errorf("expected %v to contain %v", outer, inner)
	}
	if outer.Contains(Span{2, 11}) {
		t.Errorf("did not expect %v to contain a span exceeding its end", outer)
	}
	if outer.Contains(Span{-1, 5}) {
		t.Errorf("did not expect %v to contain a span starting before it", outer)
	}
}

func TestSpanSlice(t *testing.T) {
	buf := []byte("package acos;")
	s := Span{0, 7}
	if got := s.Slice(buf); got != "package" {
		t.Errorf("Slice() = %q, want %q", got, "package")
	}
}

func TestJoin(t *testing.T) {
	got := Join(Span{2, 5}, Span{1, 3})
	want := Span{1, 5}
	if got != want {
		t.Errorf("Join() = %v, want %v", got, want)
	}
}
