package token

import "testing"

func TestCacheCompileReturnsSameTokens(t *testing.T) {
	c := NewCache(4)

	got1, err := c.Compile("$.a.b")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	got2, err := c.Compile("$.a.b")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if len(got1) != len(got2) {
		t.Fatalf("cached compile returned different token lists: %v vs %v", got1, got2)
	}
	for i := range got1 {
		if got1[i] != got2[i] {
			t.Errorf("token %d differs: %v vs %v", i, got1[i], got2[i])
		}
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCacheCompilePropagatesSyntaxErrors(t *testing.T) {
	c := NewCache(4)
	if _, err := c.Compile("not-a-path"); err == nil {
		t.Fatal("expected error for malformed expression")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after a failed compile", c.Len())
	}
}

func TestCacheEvictsUnderSustainedInserts(t *testing.T) {
	c := NewCache(2)

	exprs := []string{"$.a", "$.b", "$.c", "$.d", "$.e", "$.f", "$.g", "$.h"}
	for _, e := range exprs {
		if _, err := c.Compile(e); err != nil {
			t.Fatalf("Compile(%q): %v", e, err)
		}
	}

	if c.Len() >= len(exprs) {
		t.Errorf("Len() = %d, cache never evicted anything", c.Len())
	}
}

func TestCacheZeroOrNegativeSizeUsesDefault(t *testing.T) {
	c := NewCache(0)
	if c.maxSize != defaultCacheSize {
		t.Errorf("maxSize = %d, want default %d", c.maxSize, defaultCacheSize)
	}
	c = NewCache(-1)
	if c.maxSize != defaultCacheSize {
		t.Errorf("NewCache(-1) maxSize = %d, want default %d", c.maxSize, defaultCacheSize)
	}
}
