package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/seekho-platform/activation-backend/internal/logger"
	"github.com/seekho-platform/activation-backend/internal/models"
	"github.com/seekho-platform/activation-backend/internal/repository"
	"github.com/seekho-platform/activation-backend/internal/validation"
)

// Provisioner создаёт постоянный аккаунт во внешнем identity-хранилище.
// Дубликат email обязан возвращаться различимой ошибкой.
type Provisioner interface {
	CreateAccount(ctx context.Context, email, password, fullName, role string) (*models.AccountRef, error)
}

// ProvisionInput — данные для создания аккаунта, передаваемые вместе с кодом.
type ProvisionInput struct {
	Password string
	FullName string
	Role     string
}

// VerifierService проверяет код и, при совпадении, провижинит аккаунт.
// Код гасится ровно один раз: погашение атомарно с удалением записи.
type VerifierService struct {
	store       OTPStore
	provisioner Provisioner

	storeTimeout     time.Duration
	provisionTimeout time.Duration

	now func() time.Time
}

// NewVerifierService создаёт сервис проверки кодов.
func NewVerifierService(store OTPStore, provisioner Provisioner, storeTimeout, provisionTimeout time.Duration) *VerifierService {
	return &VerifierService{
		store:            store,
		provisioner:      provisioner,
		storeTimeout:     storeTimeout,
		provisionTimeout: provisionTimeout,
		now:              time.Now,
	}
}

// Verify гасит код и создаёт аккаунт. Порядок жёсткий: сначала
// атомарный consume, затем provisioning. Если provisioning упал, код уже
// потрачен — «разгашение» не предусмотрено, иначе при гонках ломается
// одноразовость. Пользователь в этом случае начинает с Generate заново.
func (s *VerifierService) Verify(ctx context.Context, email, code string, in ProvisionInput) (*models.AccountRef, error) {
	// Проверка формата до любого обращения к хранилищу.
	if err := validation.ValidateCodeFormat(code); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCode, err)
	}
	email = validation.NormalizeEmail(email)

	consumeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	result, err := s.store.ConsumeIfValid(consumeCtx, email, code, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	switch result {
	case repository.ConsumeNotFound:
		logger.WithComponent("verifier").WithField("email", email).Info("код не подошёл или уже погашен")
		return nil, ErrInvalidOrConsumedCode
	case repository.ConsumeExpired:
		// Запись уже удалена тем же consume: просроченный код не
		// переживёт первую же попытку проверки.
		logger.WithComponent("verifier").WithField("email", email).Info("код просрочен, запись удалена")
		return nil, ErrCodeExpired
	}

	provisionCtx, cancelProvision := context.WithTimeout(ctx, s.provisionTimeout)
	defer cancelProvision()
	account, err := s.provisioner.CreateAccount(provisionCtx, email, in.Password, in.FullName, in.Role)
	if err != nil {
		logger.WithComponent("verifier").WithFields(logrus.Fields{
			"email": email,
			"error": err.Error(),
		}).Error("код погашен, но аккаунт не создан")
		return nil, fmt.Errorf("%w: %w", ErrProvisioningFailed, err)
	}

	// Consume уже удалил запись; явный Delete — идемпотентная подстраховка
	// на случай реализации хранилища через «пометить использованным».
	deleteCtx, cancelDelete := context.WithTimeout(ctx, s.storeTimeout)
	defer cancelDelete()
	if err := s.store.Delete(deleteCtx, email); err != nil {
		logger.WithComponent("verifier").WithFields(logrus.Fields{
			"email": email,
			"error": err.Error(),
		}).Warn("не удалось подчистить запись после provisioning")
	}

	logger.WithComponent("verifier").WithFields(logrus.Fields{
		"email":      email,
		"account_id": account.ID,
	}).Info("email подтверждён, аккаунт создан")

	return account, nil
}
