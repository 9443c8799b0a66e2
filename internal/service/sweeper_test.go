package service

import (
	"context"
	"testing"
	"time"

	"github.com/seekho-platform/activation-backend/internal/repository"
)

func TestSweeper_RemovesOnlyExpiredRecords(t *testing.T) {
	store := repository.NewMemoryOTPRepository()
	ctx := context.Background()
	now := time.Now()

	store.Put(ctx, "old@x.com", "111111", now.Add(-time.Minute))
	store.Put(ctx, "fresh@x.com", "222222", now.Add(10*time.Minute))

	sweeper := NewSweeper(store, time.Minute)
	sweeper.sweep(ctx)

	if _, err := store.Get(ctx, "old@x.com"); err != repository.ErrOTPNotFound {
		t.Fatalf("просроченная запись должна быть удалена, получили %v", err)
	}
	if _, err := store.Get(ctx, "fresh@x.com"); err != nil {
		t.Fatalf("живая запись должна остаться: %v", err)
	}
}

func TestSweeper_ZeroIntervalDisablesSweep(t *testing.T) {
	// Start с нулевым интервалом не должен запускать горутину и
	// трогать хранилище.
	sweeper := NewSweeper(&failingStore{t: t}, 0)
	sweeper.Start(context.Background())

	time.Sleep(10 * time.Millisecond)
}
