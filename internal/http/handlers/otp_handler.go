package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seekho-platform/activation-backend/internal/service"
	"github.com/seekho-platform/activation-backend/internal/validation"
)

// OTPHandler предоставляет HTTP слой активации аккаунта по email.
type OTPHandler struct {
	issuer   *service.IssuerService
	verifier *service.VerifierService
}

// NewOTPHandler создаёт хэндлер.
func NewOTPHandler(issuer *service.IssuerService, verifier *service.VerifierService) *OTPHandler {
	return &OTPHandler{issuer: issuer, verifier: verifier}
}

// GenerateOTP обрабатывает POST /api/auth/generate-otp.
// Повторный вызов для того же email — это resend: старый код вытесняется.
func (h *OTPHandler) GenerateOTP(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		FullName string `json:"fullName"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "email обязателен"})
		return
	}

	if err := validation.ValidateEmail(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if req.FullName != "" {
		if err := validation.ValidateFullName(req.FullName); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
	}

	if err := h.issuer.Generate(c.Request.Context(), req.Email, req.FullName); err != nil {
		// Сам код в ответ не попадает ни при каком исходе.
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// VerifyOTP обрабатывает POST /api/auth/verify-otp.
func (h *OTPHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		OTP      string `json:"otp" binding:"required"`
		Password string `json:"password" binding:"required"`
		FullName string `json:"fullName"`
		Role     string `json:"role" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "email, код, пароль и роль обязательны"})
		return
	}

	if err := validation.ValidateEmail(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := validation.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := validation.ValidateRole(req.Role); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if req.FullName != "" {
		if err := validation.ValidateFullName(req.FullName); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
	}

	account, err := h.verifier.Verify(c.Request.Context(), req.Email, req.OTP, service.ProvisionInput{
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    account,
	})
}
