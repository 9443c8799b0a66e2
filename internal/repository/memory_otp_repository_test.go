package repository

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryOTPRepository_PutReplacesExistingRecord(t *testing.T) {
	repo := NewMemoryOTPRepository()
	ctx := context.Background()
	now := time.Now()

	if err := repo.Put(ctx, "a@x.com", "111111", now.Add(10*time.Minute)); err != nil {
		t.Fatalf("put вернул ошибку: %v", err)
	}
	if err := repo.Put(ctx, "a@x.com", "222222", now.Add(10*time.Minute)); err != nil {
		t.Fatalf("повторный put вернул ошибку: %v", err)
	}

	// Первый код вытеснен и больше не гасится.
	result, err := repo.ConsumeIfValid(ctx, "a@x.com", "111111", now)
	if err != nil {
		t.Fatalf("consume вернул ошибку: %v", err)
	}
	if result != ConsumeNotFound {
		t.Fatalf("ожидался ConsumeNotFound для вытесненного кода, получили %v", result)
	}

	// Второй код всё ещё на месте: NotFound по первому коду не должен
	// уносить запись.
	result, err = repo.ConsumeIfValid(ctx, "a@x.com", "222222", now)
	if err != nil {
		t.Fatalf("consume вернул ошибку: %v", err)
	}
	if result != ConsumeFound {
		t.Fatalf("ожидался ConsumeFound для нового кода, получили %v", result)
	}
}

func TestMemoryOTPRepository_ConsumeIsSingleUse(t *testing.T) {
	repo := NewMemoryOTPRepository()
	ctx := context.Background()
	now := time.Now()

	if err := repo.Put(ctx, "a@x.com", "123456", now.Add(10*time.Minute)); err != nil {
		t.Fatalf("put вернул ошибку: %v", err)
	}

	result, _ := repo.ConsumeIfValid(ctx, "a@x.com", "123456", now)
	if result != ConsumeFound {
		t.Fatalf("первое погашение должно вернуть ConsumeFound, получили %v", result)
	}

	result, _ = repo.ConsumeIfValid(ctx, "a@x.com", "123456", now)
	if result != ConsumeNotFound {
		t.Fatalf("повторное погашение должно вернуть ConsumeNotFound, получили %v", result)
	}
}

func TestMemoryOTPRepository_ExpiredRecordIsRemovedOnConsume(t *testing.T) {
	repo := NewMemoryOTPRepository()
	ctx := context.Background()
	now := time.Now()

	if err := repo.Put(ctx, "b@x.com", "123456", now.Add(10*time.Minute)); err != nil {
		t.Fatalf("put вернул ошибку: %v", err)
	}

	// Симулированные 11 минут спустя.
	later := now.Add(11 * time.Minute)

	result, _ := repo.ConsumeIfValid(ctx, "b@x.com", "123456", later)
	if result != ConsumeExpired {
		t.Fatalf("ожидался ConsumeExpired, получили %v", result)
	}

	// Просроченная запись удалена тем же вызовом: повтор того же кода
	// уже неотличим от «никогда не выдавался».
	result, _ = repo.ConsumeIfValid(ctx, "b@x.com", "123456", later)
	if result != ConsumeNotFound {
		t.Fatalf("ожидался ConsumeNotFound после удаления, получили %v", result)
	}

	if _, err := repo.Get(ctx, "b@x.com"); err != ErrOTPNotFound {
		t.Fatalf("запись должна отсутствовать, получили %v", err)
	}
}

func TestMemoryOTPRepository_ConcurrentConsumeHasSingleWinner(t *testing.T) {
	repo := NewMemoryOTPRepository()
	ctx := context.Background()
	now := time.Now()

	if err := repo.Put(ctx, "race@x.com", "654321", now.Add(10*time.Minute)); err != nil {
		t.Fatalf("put вернул ошибку: %v", err)
	}

	const workers = 32
	results := make(chan ConsumeResult, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := repo.ConsumeIfValid(ctx, "race@x.com", "654321", now)
			if err != nil {
				t.Errorf("consume вернул ошибку: %v", err)
				return
			}
			results <- result
		}()
	}
	wg.Wait()
	close(results)

	var found, notFound int
	for result := range results {
		switch result {
		case ConsumeFound:
			found++
		case ConsumeNotFound:
			notFound++
		default:
			t.Fatalf("неожиданный результат %v", result)
		}
	}

	if found != 1 {
		t.Fatalf("погасить код должен ровно один вызов, получили %d", found)
	}
	if notFound != workers-1 {
		t.Fatalf("остальные должны получить ConsumeNotFound, получили %d", notFound)
	}
}

func TestMemoryOTPRepository_DeleteIsIdempotent(t *testing.T) {
	repo := NewMemoryOTPRepository()
	ctx := context.Background()

	if err := repo.Put(ctx, "a@x.com", "123456", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("put вернул ошибку: %v", err)
	}

	if err := repo.Delete(ctx, "a@x.com"); err != nil {
		t.Fatalf("delete вернул ошибку: %v", err)
	}
	if err := repo.Delete(ctx, "a@x.com"); err != nil {
		t.Fatalf("повторный delete должен быть идемпотентным: %v", err)
	}
}

func TestMemoryOTPRepository_DeleteExpired(t *testing.T) {
	repo := NewMemoryOTPRepository()
	ctx := context.Background()
	now := time.Now()

	repo.Put(ctx, "old1@x.com", "111111", now.Add(-time.Minute))
	repo.Put(ctx, "old2@x.com", "222222", now.Add(-time.Second))
	repo.Put(ctx, "fresh@x.com", "333333", now.Add(10*time.Minute))

	deleted, err := repo.DeleteExpired(ctx, now)
	if err != nil {
		t.Fatalf("delete expired вернул ошибку: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("ожидалось удаление двух записей, удалено %d", deleted)
	}

	if _, err := repo.Get(ctx, "fresh@x.com"); err != nil {
		t.Fatalf("живая запись не должна удаляться: %v", err)
	}
}
