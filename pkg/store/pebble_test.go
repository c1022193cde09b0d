package store

import (
	"testing"
)

func openTestStore(t *testing.T) {
	t.Helper()
	if err := Open(t.TempDir()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
}

func TestGetMissingKey(t *testing.T) {
	openTestStore(t)
	v, ok, err := Get([]byte("nope"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok || v != nil {
		t.Fatalf("expected miss, got ok=%v v=%q", ok, v)
	}
}

func TestPutGetRoundtrip(t *testing.T) {
	openTestStore(t)
	if err := Put([]byte("k1"), []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	v, ok, err := Get([]byte("k1"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || string(v) != "v1" {
		t.Fatalf("expected v1, got ok=%v v=%q", ok, v)
	}
}

func TestScanPrefixOrderAndBoundary(t *testing.T) {
	openTestStore(t)
	pairs := map[string]string{
		"a_1": "1",
		"a_2": "2",
		"a_3": "3",
		"b_1": "other",
	}
	for k, v := range pairs {
		if err := Put([]byte(k), []byte(v)); err != nil {
			t.Fatalf("Put %s: %v", k, err)
		}
	}
	var keys []string
	err := ScanPrefix([]byte("a_"), func(k, _ []byte) error {
		keys = append(keys, string(k))
		return nil
	})
	if err != nil {
		t.Fatalf("ScanPrefix: %v", err)
	}
	if len(keys) != 3 {
		t.Fatalf("expected 3 keys, got %v", keys)
	}
	for i, want := range []string{"a_1", "a_2", "a_3"} {
		if keys[i] != want {
			t.Fatalf("key %d: expected %s, got %s", i, want, keys[i])
		}
	}
}

func TestCountPrefix(t *testing.T) {
	openTestStore(t)
	for _, k := range []string{"x_1", "x_2", "y_1"} {
		if err := Put([]byte(k), []byte("v")); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	n, err := CountPrefix([]byte("x_"))
	if err != nil {
		t.Fatalf("CountPrefix: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2, got %d", n)
	}
}

func TestNotOpened(t *testing.T) {
	if Ready() {
		t.Skip("store already open from another test")
	}
	if err := Put([]byte("k"), []byte("v")); err == nil {
		t.Fatal("expected error from unopened store")
	}
}
