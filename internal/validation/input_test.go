package validation

import (
	"strings"
	"testing"
)

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  USER@Example.COM  "); got != "user@example.com" {
		t.Fatalf("ожидался user@example.com, получили %q", got)
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"user.name+tag@sub.example.org",
		"  USER@EXAMPLE.COM ",
	}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Fatalf("email %q должен проходить: %v", email, err)
		}
	}

	invalid := []string{
		"",
		"no-at-sign",
		"two@@example.com",
		"@example.com",
		"user@",
		"user@nodot",
		"user name@example.com",
		"user@" + strings.Repeat("a", 256) + ".com",
	}
	for _, email := range invalid {
		if err := ValidateEmail(email); err == nil {
			t.Fatalf("email %q не должен проходить", email)
		}
	}
}

func TestValidateCodeFormat(t *testing.T) {
	if err := ValidateCodeFormat("012345"); err != nil {
		t.Fatalf("код 012345 должен проходить: %v", err)
	}

	for _, code := range []string{"", "12345", "1234567", "12345a", "abcdef", " 12345", "12 345"} {
		if err := ValidateCodeFormat(code); err == nil {
			t.Fatalf("код %q не должен проходить", code)
		}
	}
}

func TestValidateRole(t *testing.T) {
	for _, role := range []string{"teacher", "student"} {
		if err := ValidateRole(role); err != nil {
			t.Fatalf("роль %q должна проходить: %v", role, err)
		}
	}

	for _, role := range []string{"", "admin", "Teacher", "STUDENT"} {
		if err := ValidateRole(role); err == nil {
			t.Fatalf("роль %q не должна проходить", role)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("password123"); err != nil {
		t.Fatalf("пароль должен проходить: %v", err)
	}

	if err := ValidatePassword("short"); err == nil {
		t.Fatalf("короткий пароль не должен проходить")
	}
	if err := ValidatePassword(""); err == nil {
		t.Fatalf("пустой пароль не должен проходить")
	}
}

func TestValidateFullName(t *testing.T) {
	for _, name := range []string{"Ann", "Анна Петрова", "Jean-Luc O'Neil"} {
		if err := ValidateFullName(name); err != nil {
			t.Fatalf("имя %q должно проходить: %v", name, err)
		}
	}

	for _, name := range []string{"", "A", strings.Repeat("a", 101), "<script>"} {
		if err := ValidateFullName(name); err == nil {
			t.Fatalf("имя %q не должно проходить", name)
		}
	}
}
