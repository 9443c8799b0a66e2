package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/seekho-platform/activation-backend/internal/models"
)

// Константы валидации
const (
	MinFullNameLength = 2
	MaxFullNameLength = 100
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

var (
	localPartRegex = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	domainRegex    = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	codeRegex      = regexp.MustCompile(`^[0-9]{6}$`)
	fullNameRegex  = regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ0-9\s\-_.']+$`)
)

// NormalizeEmail приводит email к каноническому виду: без пробелов, в нижнем регистре.
// Все записи кодов ключуются нормализованным email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = NormalizeEmail(email)

	// Базовая проверка формата
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}

	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	if !localPartRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateCodeFormat проверяет, что строка выглядит как одноразовый код:
// ровно шесть цифр. Вызывается до любого обращения к хранилищу.
func ValidateCodeFormat(code string) error {
	if !codeRegex.MatchString(code) {
		return fmt.Errorf("код должен состоять из %d цифр", models.CodeLength)
	}
	return nil
}

// ValidateFullName проверяет полное имя пользователя.
func ValidateFullName(fullName string) error {
	if fullName == "" {
		return fmt.Errorf("полное имя обязательно")
	}

	fullName = strings.TrimSpace(fullName)

	length := utf8.RuneCountInString(fullName)
	if length < MinFullNameLength || length > MaxFullNameLength {
		return fmt.Errorf("полное имя должно быть от %d до %d символов", MinFullNameLength, MaxFullNameLength)
	}

	if !fullNameRegex.MatchString(fullName) {
		return fmt.Errorf("полное имя содержит недопустимые символы")
	}

	return nil
}

// ValidatePassword проверяет только длину: политика хэширования и сложности
// принадлежит внешнему identity-провайдеру.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("пароль обязателен")
	}

	length := utf8.RuneCountInString(password)
	if length < MinPasswordLength || length > MaxPasswordLength {
		return fmt.Errorf("пароль должен быть от %d до %d символов", MinPasswordLength, MaxPasswordLength)
	}

	return nil
}

// ValidateRole проверяет роль при регистрации.
func ValidateRole(role string) error {
	if role != models.RoleTeacher && role != models.RoleStudent {
		return fmt.Errorf("роль должна быть %s или %s", models.RoleTeacher, models.RoleStudent)
	}
	return nil
}
