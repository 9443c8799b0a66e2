package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/seekho-platform/activation-backend/internal/logger"
)

// SafeGoWithContext запускает горутину с обработкой panic.
// Паника фоновой задачи логируется со стеком и не роняет процесс.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.WithComponent("goroutine").Errorf("panic в горутине: %v\n%s", r, debug.Stack())
			}
		}()
		fn(ctx)
	}()
}
