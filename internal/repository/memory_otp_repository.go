package repository

import (
	"context"
	"sync"
	"time"

	"github.com/seekho-platform/activation-backend/internal/models"
)

// MemoryOTPRepository — in-memory реализация хранилища кодов с теми же
// семантиками, что и postgres-версия. Используется в development без базы
// и в тестах. Мьютекс сериализует Put и ConsumeIfValid по всем ключам,
// что строго покрывает требуемую сериализацию по одному email.
type MemoryOTPRepository struct {
	mu      sync.Mutex
	records map[string]models.OTPRecord
}

// NewMemoryOTPRepository создаёт пустое хранилище.
func NewMemoryOTPRepository() *MemoryOTPRepository {
	return &MemoryOTPRepository{records: make(map[string]models.OTPRecord)}
}

// Put сохраняет код для email, безусловно заменяя предыдущую запись.
func (r *MemoryOTPRepository) Put(ctx context.Context, email, code string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[email] = models.OTPRecord{
		Email:     email,
		Code:      code,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

// ConsumeIfValid атомарно удаляет совпавшую запись и сообщает исход.
// Из конкурирующих вызовов запись достаётся ровно одному.
func (r *MemoryOTPRepository) ConsumeIfValid(ctx context.Context, email, code string, now time.Time) (ConsumeResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[email]
	if !ok || rec.Code != code {
		return ConsumeNotFound, nil
	}

	delete(r.records, email)

	if rec.Expired(now) {
		return ConsumeExpired, nil
	}

	return ConsumeFound, nil
}

// Delete удаляет запись по email. Отсутствие записи не считается ошибкой.
func (r *MemoryOTPRepository) Delete(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, email)
	return nil
}

// DeleteExpired удаляет все просроченные записи и возвращает их количество.
func (r *MemoryOTPRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for email, rec := range r.records {
		if rec.Expired(now) {
			delete(r.records, email)
			deleted++
		}
	}
	return deleted, nil
}

// Get возвращает копию записи по email или ErrOTPNotFound.
func (r *MemoryOTPRepository) Get(ctx context.Context, email string) (*models.OTPRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[email]
	if !ok {
		return nil, ErrOTPNotFound
	}
	return &rec, nil
}
