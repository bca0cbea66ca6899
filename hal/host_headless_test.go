package hal

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunHeadlessStopsAfterTicks(t *testing.T) {
	var steps int
	err := RunHeadless(context.Background(), func() error {
		steps++
		return nil
	}, HeadlessConfig{Hz: 1000, Ticks: 5})
	if err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if steps != 5 {
		t.Fatalf("steps = %d, want 5", steps)
	}
}

func TestRunHeadlessQuit(t *testing.T) {
	var steps int
	err := RunHeadless(context.Background(), func() error {
		steps++
		if steps == 2 {
			return ErrQuit
		}
		return nil
	}, HeadlessConfig{Hz: 1000})
	if err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if steps != 2 {
		t.Fatalf("steps = %d, want 2", steps)
	}
}

func TestRunHeadlessStepError(t *testing.T) {
	boom := errors.New("boom")
	err := RunHeadless(context.Background(), func() error { return boom }, HeadlessConfig{Hz: 1000})
	if !errors.Is(err, boom) {
		t.Fatalf("RunHeadless err = %v, want boom", err)
	}
}

func TestRunHeadlessContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := RunHeadless(ctx, nil, HeadlessConfig{Hz: 100})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("RunHeadless err = %v, want deadline exceeded", err)
	}
}
