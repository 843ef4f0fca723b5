package cache

import (
	"errors"
	"io"
	"log"
	"testing"
	"time"
)

type program struct {
	ID    int64    `json:"id"`
	Exams []string `json:"exams"`
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func drivers(t *testing.T) map[string]Cache {
	t.Helper()

	fc, err := NewFileCache(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("file cache: %v", err)
	}

	return map[string]Cache{
		"memory": NewMemoryCache(testLogger(), 0),
		"file":   fc,
	}
}

func TestCache_SetGetDelete(t *testing.T) {
	for name, c := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			in := []program{{ID: 1, Exams: []string{"Matric"}}}
			if err := c.Set("catalog", in, time.Minute); err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			var out []program
			found, err := c.Get("catalog", &out)
			if err != nil || !found {
				t.Fatalf("Expected hit, got found=%v err=%v", found, err)
			}
			if len(out) != 1 || out[0].Exams[0] != "Matric" {
				t.Errorf("Unexpected value: %+v", out)
			}

			// Okunan değer cache'teki kopyayı değiştirmemeli
			out[0].Exams[0] = "changed"
			var again []program
			_, _ = c.Get("catalog", &again)
			if again[0].Exams[0] != "Matric" {
				t.Error("Cached value must not be shared with readers")
			}

			if err := c.Delete("catalog"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if has, _ := c.Has("catalog"); has {
				t.Error("Key should be gone after Delete")
			}
		})
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	mc := NewMemoryCache(testLogger(), 0)
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return now }

	_ = mc.Set("k", 42, 10*time.Minute)

	now = now.Add(9 * time.Minute)
	var v int
	if found, _ := mc.Get("k", &v); !found || v != 42 {
		t.Fatalf("Expected hit before ttl, got found=%v v=%d", found, v)
	}

	now = now.Add(2 * time.Minute)
	if found, _ := mc.Get("k", &v); found {
		t.Error("Expected miss after ttl")
	}
}

func TestRemember_CallsCallbackOnlyOnMiss(t *testing.T) {
	for name, c := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			calls := 0
			load := func() (interface{}, error) {
				calls++
				return []program{{ID: 7}}, nil
			}

			var first, second []program
			if err := Remember(c, testLogger(), "groups", time.Minute, &first, load); err != nil {
				t.Fatalf("Remember failed: %v", err)
			}
			if err := Remember(c, testLogger(), "groups", time.Minute, &second, load); err != nil {
				t.Fatalf("Remember failed: %v", err)
			}

			if calls != 1 {
				t.Errorf("Expected callback once, got %d", calls)
			}
			if first[0].ID != 7 || second[0].ID != 7 {
				t.Errorf("Unexpected values: %+v %+v", first, second)
			}
		})
	}
}

func TestRemember_PropagatesCallbackError(t *testing.T) {
	c := NewMemoryCache(testLogger(), 0)
	boom := errors.New("store down")

	var out []program
	err := Remember(c, testLogger(), "groups", time.Minute, &out, func() (interface{}, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected store error, got %v", err)
	}
	if has, _ := c.Has("groups"); has {
		t.Error("Failed load must not populate the cache")
	}
}

func TestFlush(t *testing.T) {
	for name, c := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			_ = c.Set("a", 1, 0)
			_ = c.Set("b", 2, 0)
			if err := c.Flush(); err != nil {
				t.Fatalf("Flush failed: %v", err)
			}
			if has, _ := c.Has("a"); has {
				t.Error("Flush should remove all keys")
			}
		})
	}
}
