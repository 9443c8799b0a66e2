package models

import (
	"time"

	"github.com/google/uuid"
)

// Роли, которые выбирает пользователь при регистрации.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// CodeLength задаёт фиксированную длину одноразового кода.
const CodeLength = 6

// OTPRecord — одноразовый код активации, привязанный к email.
// На один email существует не более одной активной записи.
type OTPRecord struct {
	Email     string    `db:"email" json:"email"`
	Code      string    `db:"otp" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Expired сообщает, истёк ли код на момент now.
func (r *OTPRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// AccountRef — ссылка на аккаунт, созданный внешним identity-провайдером.
type AccountRef struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
}
