package cache

import "testing"

func TestPebbleCache_PutGet(t *testing.T) {
	c, err := NewPebbleCache(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if _, ok, err := c.Get("missing"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}

	if err := c.Put("k1", []byte(`{"rows_read":3}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	v, ok, err := c.Get("k1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(v) != `{"rows_read":3}` {
		t.Fatalf("get = %s", v)
	}

	if err := c.Put("k1", []byte(`{}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := c.Put("k2", []byte(`{}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	n, err := c.Len()
	if err != nil {
		t.Fatalf("len: %v", err)
	}
	if n != 2 {
		t.Fatalf("len = %d, want 2", n)
	}
}

func TestPebbleCache_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	c, err := NewPebbleCache(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := c.Put("k", []byte("v")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	c, err = NewPebbleCache(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	if v, ok, err := c.Get("k"); err != nil || !ok || string(v) != "v" {
		t.Fatalf("after reopen: v=%q ok=%v err=%v", v, ok, err)
	}
}
