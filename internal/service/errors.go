package service

import "errors"

// Таксономия ошибок активации. Хэндлеры сопоставляют их со статусами
// и пользовательскими сообщениями через errors.Is.
var (
	// ErrMalformedCode — введённая строка не похожа на код; хранилище не трогаем.
	ErrMalformedCode = errors.New("malformed code")
	// ErrInvalidOrConsumedCode — подходящей записи нет: неверный код, уже
	// использованный или никогда не выдававшийся. Случаи намеренно слиты,
	// чтобы по ответу нельзя было выяснить состояние выдачи.
	ErrInvalidOrConsumedCode = errors.New("invalid or consumed code")
	// ErrCodeExpired — код совпал, но срок действия истёк; запись удалена.
	ErrCodeExpired = errors.New("code expired")
	// ErrStoreUnavailable — инфраструктурный сбой хранилища; запрос можно повторить.
	ErrStoreUnavailable = errors.New("otp store unavailable")
	// ErrNotificationFailed — запись сохранена, но письмо не ушло;
	// пользователь может запросить повторную отправку.
	ErrNotificationFailed = errors.New("notification failed")
	// ErrProvisioningFailed — код погашен, а аккаунт не создан; для этого
	// кода исход необратим, регистрацию нужно начать заново.
	ErrProvisioningFailed = errors.New("provisioning failed")
)
