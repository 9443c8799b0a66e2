package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/seekho-platform/activation-backend/internal/identity"
	"github.com/seekho-platform/activation-backend/internal/logger"
	"github.com/seekho-platform/activation-backend/internal/service"
)

// Уходит пользователю вместо различимых «неверный» и «просроченный»:
// единый ответ не раскрывает, выдавался ли код вообще. Различие остаётся
// в логах и в машинном поле code.
const genericDenialMessage = "неверный или просроченный код"

// ErrorHandler сопоставляет ошибки сервисов со статусами и сообщениями.
// Внутренние детали наружу не уходят.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("Request error")
		}

		switch {
		case errors.Is(err, service.ErrMalformedCode):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "код должен состоять из 6 цифр",
				"code":    "otp_malformed",
			})
		case errors.Is(err, service.ErrInvalidOrConsumedCode):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   genericDenialMessage,
				"code":    "otp_invalid",
			})
		case errors.Is(err, service.ErrCodeExpired):
			// То же сообщение, другой машинный код: UI может показать
			// кнопку повторной отправки только для этого случая.
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   genericDenialMessage,
				"code":    "otp_expired",
			})
		case errors.Is(err, identity.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error":   "email уже зарегистрирован",
			})
		case errors.Is(err, service.ErrStoreUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error":   "сервис временно недоступен, попробуйте позже",
			})
		case errors.Is(err, service.ErrNotificationFailed):
			c.JSON(http.StatusBadGateway, gin.H{
				"success": false,
				"error":   "не удалось отправить письмо, запросите код повторно",
			})
		case errors.Is(err, service.ErrProvisioningFailed):
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "не удалось создать аккаунт, запросите новый код",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "внутренняя ошибка сервера",
			})
		}
	}
}
