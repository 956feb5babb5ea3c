// internal/cache/lru_test.go
//
// Run: go test ./internal/cache -v

package cache

import "testing"

func TestLRUEvictsOldest(t *testing.T) {
	c := NewLRU(2)
	c.Add("a", "1")
	c.Add("b", "2")
	c.Add("c", "3")

	if _, ok := c.Get("a"); ok {
		t.Fatal("a should have been evicted")
	}
	if v, ok := c.Get("b"); !ok || v != "2" {
		t.Fatalf("b = %q, %v", v, ok)
	}
	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
}

func TestLRUGetPromotes(t *testing.T) {
	c := NewLRU(2)
	c.Add("a", "1")
	c.Add("b", "2")

	// Touching a makes b the eviction candidate.
	c.Get("a")
	c.Add("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should have survived")
	}
}

func TestLRUUpdateKeepsSize(t *testing.T) {
	c := NewLRU(2)
	c.Add("a", "1")
	c.Add("a", "updated")

	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}
	if v, _ := c.Get("a"); v != "updated" {
		t.Fatalf("a = %q, want updated", v)
	}
}
