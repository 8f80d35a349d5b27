package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestStoreCreateAndResolve(t *testing.T) {
	s := NewStore()

	handle := s.Create("xoxb-123-abc")
	if handle == "" {
		t.Fatal("expected non-empty handle")
	}
	if len(handle) != 32 {
		t.Errorf("handle length = %d, want 32 hex chars", len(handle))
	}

	got, err := s.Resolve(handle)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "xoxb-123-abc" {
		t.Errorf("Resolve = %q, want xoxb-123-abc", got)
	}
}

func TestStoreHandlesAreUnique(t *testing.T) {
	s := NewStore()
	const n = 500

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		h := s.Create(fmt.Sprintf("xoxb-%d", i))
		if seen[h] {
			t.Fatalf("duplicate handle %q after %d creations", h, i)
		}
		seen[h] = true
	}
	if s.Len() != n {
		t.Errorf("Len = %d, want %d", s.Len(), n)
	}
}

func TestStoreRegeneratesCollidingHandles(t *testing.T) {
	handles := []string{"aaa", "aaa", "", "bbb"}
	i := 0
	s := NewStoreWithHandles(func() string {
		h := handles[i]
		i++
		return h
	})

	first := s.Create("xoxb-1")
	second := s.Create("xoxb-2")

	if first != "aaa" || second != "bbb" {
		t.Errorf("got handles %q, %q; want aaa, bbb", first, second)
	}
}

func TestStoreResolveErrors(t *testing.T) {
	s := NewStore()

	if _, err := s.Resolve(""); !errors.Is(err, ErrMissingHandle) {
		t.Errorf("Resolve(\"\") error = %v, want ErrMissingHandle", err)
	}
	if _, err := s.Resolve("never-created"); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("Resolve(unknown) error = %v, want ErrInvalidHandle", err)
	}
}

func TestStoreDestroyIsIdempotent(t *testing.T) {
	s := NewStore()
	h := s.Create("env:SLACK_BOT_TOKEN")

	if !s.Destroy(h) {
		t.Error("first Destroy should report removal")
	}
	if s.Destroy(h) {
		t.Error("second Destroy should report false")
	}
	if _, err := s.Resolve(h); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("Resolve after destroy error = %v, want ErrInvalidHandle", err)
	}
	if s.Destroy("") {
		t.Error("Destroy(\"\") should report false")
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cred := fmt.Sprintf("xoxb-%d", i)
			h := s.Create(cred)
			got, err := s.Resolve(h)
			if err != nil || got != cred {
				t.Errorf("Resolve(%s) = %q, %v; want %q", h, got, err, cred)
			}
			if i%2 == 0 {
				s.Destroy(h)
			}
		}(i)
	}
	wg.Wait()

	if s.Len() != 25 {
		t.Errorf("Len = %d, want 25", s.Len())
	}
}
