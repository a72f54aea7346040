package git

import (
	"errors"
	"sync"
	"testing"
)

func TestCancellerLatches(t *testing.T) {
	c := NewCanceller()
	if c.Cancelled() {
		t.Fatal("fresh canceller already cancelled")
	}
	c.Cancel()
	if !c.Cancelled() {
		t.Fatal("flag not set")
	}
	c.Cancel()
	if !c.Cancelled() {
		t.Fatal("flag dropped on repeat cancel")
	}
}

func TestCancellerConcurrent(t *testing.T) {
	c := NewCanceller()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Cancel()
			_ = c.Cancelled()
		}()
	}
	wg.Wait()
	if !c.Cancelled() {
		t.Fatal("flag lost under concurrency")
	}
}

func TestErrorWrapping(t *testing.T) {
	inner := errors.New("boom")

	if !errors.Is(&NetworkError{Msg: "request", Err: inner}, inner) {
		t.Error("NetworkError does not unwrap")
	}
	if !errors.Is(&CloneError{URL: "u", Err: inner}, inner) {
		t.Error("CloneError does not unwrap")
	}
	if !errors.Is(&CacheError{Path: "p", Err: inner}, inner) {
		t.Error("CacheError does not unwrap")
	}
}
