package vocab

import "testing"

func TestSelectRespectsMaxLen(t *testing.T) {
	s := NewListSource([]string{"Bon", "BonBon", "Bonbonniere"}, 1)
	for i := 0; i < 50; i++ {
		w, ok := s.Select(6)
		if !ok {
			t.Fatal("expected a candidate for maxLen 6")
		}
		if len(w) > 6 {
			t.Errorf("word %q exceeds maxLen 6", w)
		}
	}
}

func TestSelectSingleCandidate(t *testing.T) {
	// only "Bon" fits in three columns of the default list
	s := NewListSource(nil, 1)
	w, ok := s.Select(3)
	if !ok || w != "Bon" {
		t.Errorf("expected Bon, got %q ok=%v", w, ok)
	}
}

func TestSelectNoCandidate(t *testing.T) {
	s := NewListSource([]string{"BonBon"}, 1)
	if w, ok := s.Select(2); ok {
		t.Errorf("expected no candidate, got %q", w)
	}
	if _, ok := s.Select(0); ok {
		t.Error("maxLen 0 must never yield a word")
	}
}

func TestSelectVariesAcrossCalls(t *testing.T) {
	s := NewListSource(nil, 42)
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		w, ok := s.Select(24)
		if !ok {
			t.Fatal("expected a candidate")
		}
		seen[w] = true
	}
	if len(seen) < 2 {
		t.Errorf("expected varied selection, only saw %v", seen)
	}
}

func TestEmptyListUsesDefaults(t *testing.T) {
	s := NewListSource(nil, 1)
	if _, ok := s.Select(24); !ok {
		t.Error("default vocabulary must yield a word")
	}
}
