package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/seekho-platform/activation-backend/internal/models"
)

// ErrEmailTaken возвращается, когда identity-провайдер уже знает этот email.
var ErrEmailTaken = errors.New("email уже зарегистрирован")

// Client — адаптер admin API внешнего identity-провайдера. Аккаунт
// создаётся с уже подтверждённым email: подтверждение дала проверка кода.
// Учётные данные и сессии целиком принадлежат провайдеру.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewClient создаёт адаптер.
func NewClient(baseURL, serviceKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type createUserRequest struct {
	Email        string            `json:"email"`
	Password     string            `json:"password"`
	EmailConfirm bool              `json:"email_confirm"`
	UserMetadata map[string]string `json:"user_metadata"`
}

type createUserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Msg   string `json:"msg"`
}

// CreateAccount создаёт аккаунт во внешнем identity-хранилище.
// Дубликат email различим как ErrEmailTaken.
func (c *Client) CreateAccount(ctx context.Context, email, password, fullName, role string) (*models.AccountRef, error) {
	if c.baseURL == "" || c.serviceKey == "" {
		return nil, fmt.Errorf("identity: провайдер не сконфигурирован")
	}

	body, err := json.Marshal(createUserRequest{
		Email:        email,
		Password:     password,
		EmailConfirm: true,
		UserMetadata: map[string]string{
			"full_name": fullName,
			"role":      role,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("identity: %w", err)
	}

	url := strings.TrimSuffix(c.baseURL, "/") + "/auth/v1/admin/users"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("identity: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity: %w", err)
	}
	defer resp.Body.Close()

	var parsed createUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil && resp.StatusCode < 400 {
		return nil, fmt.Errorf("identity: некорректный ответ провайдера: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusConflict:
		return nil, ErrEmailTaken
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("identity: код ответа %d: %s", resp.StatusCode, parsed.Msg)
	}

	accountID, err := uuid.Parse(parsed.ID)
	if err != nil {
		return nil, fmt.Errorf("identity: некорректный идентификатор аккаунта %q: %w", parsed.ID, err)
	}

	return &models.AccountRef{
		ID:       accountID,
		Email:    parsed.Email,
		FullName: fullName,
		Role:     role,
	}, nil
}
