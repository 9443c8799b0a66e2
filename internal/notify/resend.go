package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ResendClient отправляет транзакционные письма через Resend API.
// Ядру активации нужно только «доставь эти шесть цифр на этот адрес»;
// всё оформление письма живёт здесь.
type ResendClient struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
}

// NewResendClient создаёт клиент. Таймаут на запрос задаёт вызывающий
// через контекст; собственный таймаут клиента — верхняя страховка.
func NewResendClient(baseURL, apiKey, from string) *ResendClient {
	return &ResendClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Send доставляет код активации на адрес получателя.
func (c *ResendClient) Send(ctx context.Context, email, code, fullName string) error {
	if c.baseURL == "" || c.apiKey == "" {
		return fmt.Errorf("notify: Resend не сконфигурирован")
	}

	greeting := strings.TrimSpace(fullName)
	if greeting == "" {
		greeting = "there"
	}

	payload := map[string]any{
		"from":    c.from,
		"to":      []string{email},
		"subject": "Verify your email - SEEKHO",
		"html":    renderOTPEmail(code, greeting),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: %w", err)
	}

	url := strings.TrimSuffix(c.baseURL, "/") + "/emails"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorBody map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errorBody)
		return fmt.Errorf("notify: код ответа %d: %v", resp.StatusCode, errorBody)
	}

	return nil
}

// renderOTPEmail собирает HTML письма с кодом.
func renderOTPEmail(code, greeting string) string {
	return fmt.Sprintf(`
        <div style="max-width: 600px; margin: 0 auto; padding: 20px; font-family: Arial, sans-serif;">
          <div style="text-align: center; margin-bottom: 30px;">
            <h1 style="color: #4F46E5; margin: 0; font-size: 28px;">SEEKHO</h1>
            <p style="color: #666; margin: 10px 0 0 0;">E-Learning Platform</p>
          </div>

          <div style="background: #f8f9fa; padding: 30px; border-radius: 10px; margin-bottom: 20px;">
            <h2 style="color: #333; margin: 0 0 20px 0;">Welcome to SEEKHO, %s!</h2>
            <p style="color: #666; line-height: 1.6; margin-bottom: 20px;">
              Thank you for signing up! Please use the verification code below to complete your registration:
            </p>

            <div style="text-align: center; margin: 30px 0;">
              <div style="display: inline-block; background: #4F46E5; color: white; padding: 15px 30px; border-radius: 8px; font-size: 24px; font-weight: bold; letter-spacing: 3px;">
                %s
              </div>
            </div>

            <p style="color: #666; line-height: 1.6; margin-bottom: 0;">
              This code will expire in 10 minutes. If you didn't create an account with us, please ignore this email.
            </p>
          </div>

          <div style="text-align: center; padding-top: 20px; border-top: 1px solid #eee;">
            <p style="color: #999; font-size: 14px; margin: 0;">
              This is an automated message from SEEKHO. Please do not reply to this email.
            </p>
          </div>
        </div>
	`, greeting, code)
}
