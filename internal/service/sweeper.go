package service

import (
	"context"
	"time"

	"github.com/seekho-platform/activation-backend/internal/goroutine"
	"github.com/seekho-platform/activation-backend/internal/logger"
)

// Sweeper периодически удаляет просроченные записи. Это освобождение
// места, а не корректность: истечение и так проверяется при погашении.
type Sweeper struct {
	store    OTPStore
	interval time.Duration

	now func() time.Time
}

// NewSweeper создаёт уборщик. Интервал 0 отключает его.
func NewSweeper(store OTPStore, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		interval: interval,
		now:      time.Now,
	}
}

// Start запускает фоновый цикл уборки до отмены контекста.
func (s *Sweeper) Start(ctx context.Context) {
	if s.interval <= 0 {
		return
	}

	goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	})
}

// sweep выполняет один проход. Ошибки только логируются: следующий тик
// попробует снова.
func (s *Sweeper) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	deleted, err := s.store.DeleteExpired(sweepCtx, s.now())
	if err != nil {
		logger.WithComponent("sweeper").WithField("error", err.Error()).Warn("уборка просроченных кодов не удалась")
		return
	}

	if deleted > 0 {
		logger.WithComponent("sweeper").WithField("deleted", deleted).Debug("просроченные коды удалены")
	}
}
