package dismiss

import (
	"context"
	"reflect"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	got, err := s.Get(ctx, "sess1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty set, got %v", got)
	}

	if err := s.Set(ctx, "sess1", []int{3, 1, 3}); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, _ = s.Get(ctx, "sess1")
	if !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("expected normalized [1 3], got %v", got)
	}
}

func TestMemoryStoreSessionIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Set(ctx, "a", []int{1})
	s.Set(ctx, "b", []int{2})

	got, _ := s.Get(ctx, "a")
	if !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("session a leaked: %v", got)
	}
}

func TestMemoryStoreClear(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Set(ctx, "sess1", []int{1, 2})

	if err := s.Clear(ctx, "sess1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, _ := s.Get(ctx, "sess1")
	if len(got) != 0 {
		t.Errorf("expected empty set after clear, got %v", got)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Set(ctx, "sess1", []int{1, 2})

	got, _ := s.Get(ctx, "sess1")
	got[0] = 99

	again, _ := s.Get(ctx, "sess1")
	if !reflect.DeepEqual(again, []int{1, 2}) {
		t.Errorf("stored set was mutated through the returned slice: %v", again)
	}
}

func TestNoopStore(t *testing.T) {
	ctx := context.Background()
	s := NoopStore{}
	if err := s.Set(ctx, "sess1", []int{1}); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, "sess1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected noop store to read empty, got %v", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want []int
	}{
		{[]int{3, 1, 2}, []int{1, 2, 3}},
		{[]int{1, 1, 1}, []int{1}},
		{[]int{}, []int{}},
		{nil, []int{}},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestContains(t *testing.T) {
	set := Normalize([]int{5, 1, 3})
	for _, p := range []int{1, 3, 5} {
		if !Contains(set, p) {
			t.Errorf("expected set to contain %d", p)
		}
	}
	for _, p := range []int{0, 2, 6} {
		if Contains(set, p) {
			t.Errorf("did not expect set to contain %d", p)
		}
	}
	if Contains(nil, 1) {
		t.Error("empty set should contain nothing")
	}
}
