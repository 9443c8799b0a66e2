package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrOTPNotFound возвращается, когда запись кода не найдена.
var ErrOTPNotFound = errors.New("otp record not found")

// ConsumeResult — исход атомарной попытки погасить код.
type ConsumeResult int

const (
	// ConsumeNotFound — записи нет: код неверный, уже погашен или не выдавался.
	// Эти случаи намеренно неразличимы.
	ConsumeNotFound ConsumeResult = iota
	// ConsumeFound — код совпал и не истёк; запись удалена этим же шагом.
	ConsumeFound
	// ConsumeExpired — код совпал, но срок истёк; запись тоже удалена.
	ConsumeExpired
)

// OTPRepository отвечает за таблицу otp_verifications.
type OTPRepository struct {
	db *sqlx.DB
}

// NewOTPRepository создаёт экземпляр репозитория.
func NewOTPRepository(db *sqlx.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

// Put сохраняет код для email, безусловно заменяя предыдущую запись.
// Последняя запись побеждает; атомарность даёт upsert по первичному ключу.
func (r *OTPRepository) Put(ctx context.Context, email, code string, expiresAt time.Time) error {
	query := `
		INSERT INTO otp_verifications (email, otp, expires_at, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (email) DO UPDATE
		SET otp = EXCLUDED.otp, expires_at = EXCLUDED.expires_at, created_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, email, code, expiresAt); err != nil {
		return fmt.Errorf("otp repository: put %w", err)
	}

	return nil
}

// ConsumeIfValid атомарно удаляет запись, совпавшую по email и коду, и
// сообщает исход. Один DELETE .. RETURNING: из двух конкурирующих вызовов
// строку удалит ровно один, второй получит ConsumeNotFound. Просроченная
// запись тоже удаляется — повторная отправка того же кода её не увидит.
func (r *OTPRepository) ConsumeIfValid(ctx context.Context, email, code string, now time.Time) (ConsumeResult, error) {
	query := `
		DELETE FROM otp_verifications
		WHERE email = $1 AND otp = $2
		RETURNING expires_at
	`

	var expiresAt time.Time
	err := r.db.QueryRowxContext(ctx, query, email, code).Scan(&expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ConsumeNotFound, nil
	}
	if err != nil {
		// Инфраструктурная ошибка никогда не маскируется под NotFound.
		return ConsumeNotFound, fmt.Errorf("otp repository: consume %w", err)
	}

	if !now.Before(expiresAt) {
		return ConsumeExpired, nil
	}

	return ConsumeFound, nil
}

// Delete удаляет запись по email. Отсутствие записи не считается ошибкой.
func (r *OTPRepository) Delete(ctx context.Context, email string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM otp_verifications WHERE email = $1`, email); err != nil {
		return fmt.Errorf("otp repository: delete %w", err)
	}
	return nil
}

// DeleteExpired удаляет все просроченные записи и возвращает их количество.
// Вызывается фоновой уборкой, на путь запроса не влияет.
func (r *OTPRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM otp_verifications WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("otp repository: delete expired %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("otp repository: delete expired %w", err)
	}

	return deleted, nil
}
