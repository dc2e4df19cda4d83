package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/five82/vapor/internal/vapor"
)

type fakePinger struct {
	calls   atomic.Int32
	results []error
}

func (f *fakePinger) Ping(ctx context.Context) error {
	n := int(f.calls.Add(1)) - 1
	if n < len(f.results) {
		return f.results[n]
	}
	return f.results[len(f.results)-1]
}

func (f *fakePinger) BaseURL() string { return "http://api.test" }

func TestWaitForAPI_SkippedWithoutTimeout(t *testing.T) {
	p := &fakePinger{results: []error{errors.New("down")}}
	if err := waitForAPI(context.Background(), p, 0, nil, nil); err != nil {
		t.Fatalf("waitForAPI() error = %v", err)
	}
	if p.calls.Load() != 0 {
		t.Fatalf("Ping called %d times, want 0", p.calls.Load())
	}
}

func TestWaitForAPI_ErrorStatusMeansAwake(t *testing.T) {
	p := &fakePinger{results: []error{&vapor.APIError{Status: 500}}}
	var out bytes.Buffer
	if err := waitForAPI(context.Background(), p, time.Second, &out, nil); err != nil {
		t.Fatalf("waitForAPI() error = %v", err)
	}
	if p.calls.Load() != 1 || out.Len() != 0 {
		t.Fatalf("calls=%d out=%q, want one silent ping", p.calls.Load(), out.String())
	}
}

func TestWaitForAPI_RetriesUntilAwake(t *testing.T) {
	down := errors.New("connection refused")
	p := &fakePinger{results: []error{down, down, nil}}
	var out bytes.Buffer
	if err := waitForAPI(context.Background(), p, 10*time.Second, &out, nil); err != nil {
		t.Fatalf("waitForAPI() error = %v", err)
	}
	if p.calls.Load() != 3 {
		t.Fatalf("Ping called %d times, want 3", p.calls.Load())
	}
	if strings.Count(out.String(), "Waiting for http://api.test") != 1 {
		t.Fatalf("output = %q, want one waiting notice", out.String())
	}
}

func TestWaitForAPI_GivesUp(t *testing.T) {
	p := &fakePinger{results: []error{errors.New("connection refused")}}
	err := waitForAPI(context.Background(), p, 300*time.Millisecond, nil, nil)
	if err == nil {
		t.Fatal("waitForAPI() error = nil, want timeout")
	}
}

func TestWaitForAPI_Cancelled(t *testing.T) {
	p := &fakePinger{results: []error{errors.New("connection refused")}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := waitForAPI(ctx, p, time.Minute, nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("waitForAPI() error = %v, want context.Canceled", err)
	}
}
