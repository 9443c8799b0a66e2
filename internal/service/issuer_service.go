package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/seekho-platform/activation-backend/internal/logger"
	"github.com/seekho-platform/activation-backend/internal/models"
	"github.com/seekho-platform/activation-backend/internal/repository"
	"github.com/seekho-platform/activation-backend/internal/validation"
)

// OTPStore описывает зависимость сервисов от хранилища кодов.
// Хранилище — единственный владелец записей; сервисы не мутируют
// состояние в обход этих операций.
type OTPStore interface {
	Put(ctx context.Context, email, code string, expiresAt time.Time) error
	ConsumeIfValid(ctx context.Context, email, code string, now time.Time) (repository.ConsumeResult, error)
	Delete(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Notifier доставляет код на почту. Форматирование письма — его забота.
type Notifier interface {
	Send(ctx context.Context, email, code, fullName string) error
}

// IssuerService выдаёт одноразовые коды: генерирует, сохраняет с TTL
// и отправляет через Notifier. Повторная выдача для того же email
// вытесняет предыдущий код, даже непросроченный.
type IssuerService struct {
	store    OTPStore
	notifier Notifier

	ttl           time.Duration
	storeTimeout  time.Duration
	notifyTimeout time.Duration

	now func() time.Time
}

// NewIssuerService создаёт сервис выдачи кодов.
func NewIssuerService(store OTPStore, notifier Notifier, ttl, storeTimeout, notifyTimeout time.Duration) *IssuerService {
	return &IssuerService{
		store:         store,
		notifier:      notifier,
		ttl:           ttl,
		storeTimeout:  storeTimeout,
		notifyTimeout: notifyTimeout,
		now:           time.Now,
	}
}

// Generate выдаёт свежий код для email и отправляет его получателю.
// Код никогда не возвращается вызывающему. Одно письмо на вызов, без
// внутренних повторов: resend — это ещё один вызов Generate.
func (s *IssuerService) Generate(ctx context.Context, email, fullName string) error {
	if err := validation.ValidateEmail(email); err != nil {
		return fmt.Errorf("issuer: %w", err)
	}
	email = validation.NormalizeEmail(email)

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("issuer: не удалось сгенерировать код: %w", err)
	}

	expiresAt := s.now().Add(s.ttl)

	putCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	if err := s.store.Put(putCtx, email, code, expiresAt); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	sendCtx, cancelSend := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancelSend()
	if err := s.notifier.Send(sendCtx, email, code, fullName); err != nil {
		// Запись уже сохранена и остаётся валидной: пользователь может
		// запросить повторную отправку, не вводя данные заново.
		logger.WithComponent("issuer").WithFields(logrus.Fields{
			"email": email,
			"error": err.Error(),
		}).Error("письмо с кодом не отправлено, запись сохранена")
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	logger.WithComponent("issuer").WithFields(logrus.Fields{
		"email":      email,
		"expires_at": expiresAt,
	}).Info("код выдан и отправлен")

	return nil
}

// generateCode возвращает криптографически непредсказуемый код
// фиксированной длины. Равномерность по всему диапазону обязательна:
// 10^6 вариантов и так немного для короткого окна действия.
func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < models.CodeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", models.CodeLength, n), nil
}
