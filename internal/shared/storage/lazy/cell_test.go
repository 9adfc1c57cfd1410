package lazy

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestCellReusesValue(t *testing.T) {
	var cell Cell[*int]
	var calls int32
	init := func() (*int, error) {
		atomic.AddInt32(&calls, 1)
		v := 42
		return &v, nil
	}

	first, reused, err := cell.Get(init)
	if err != nil || reused {
		t.Fatalf("first Get: reused=%v err=%v", reused, err)
	}
	second, reused, err := cell.Get(init)
	if err != nil || !reused {
		t.Fatalf("second Get: reused=%v err=%v", reused, err)
	}
	if first != second {
		t.Fatalf("expected same pointer")
	}
	if calls != 1 {
		t.Fatalf("expected 1 init call, got %d", calls)
	}
}

func TestCellConcurrentColdStartInitializesOnce(t *testing.T) {
	var cell Cell[int]
	var calls int32
	release := make(chan struct{})
	init := func() (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 7, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _, err := cell.Get(init)
			if err != nil {
				t.Errorf("Get: %v", err)
			}
			results[i] = v
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls != 1 {
		t.Fatalf("expected 1 init call, got %d", calls)
	}
	for i, v := range results {
		if v != 7 {
			t.Fatalf("result %d = %d, want 7", i, v)
		}
	}
}

func TestCellRetriesAfterFailure(t *testing.T) {
	var cell Cell[string]
	boom := errors.New("boom")

	if _, _, err := cell.Get(func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, ok := cell.Peek(); ok {
		t.Fatalf("failed init must not be cached")
	}
	v, reused, err := cell.Get(func() (string, error) { return "ok", nil })
	if err != nil || reused || v != "ok" {
		t.Fatalf("retry: v=%q reused=%v err=%v", v, reused, err)
	}

	cell.Reset()
	if _, ok := cell.Peek(); ok {
		t.Fatalf("expected empty cell after Reset")
	}
}

func TestCellRecoversAfterPanickingInit(t *testing.T) {
	var cell Cell[int]

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected init panic to propagate")
			}
		}()
		_, _, _ = cell.Get(func() (int, error) { panic("driver bug") })
	}()

	done := make(chan int, 1)
	go func() {
		val, _, err := cell.Get(func() (int, error) { return 7, nil })
		if err != nil {
			t.Errorf("Get: %v", err)
		}
		done <- val
	}()

	select {
	case val := <-done:
		if val != 7 {
			t.Fatalf("expected 7, got %d", val)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Get blocked after a panicking init")
	}
	if _, ready := cell.Peek(); !ready {
		t.Fatalf("expected value cached after successful init")
	}
}
