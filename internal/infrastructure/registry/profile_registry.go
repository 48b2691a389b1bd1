// Package registry talks to the marketplace backend's profile API. The
// session gateway only performs one call: an idempotent upsert after a
// successful sign-in, so the marketplace always has a profile row for every
// principal that has ever logged in.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fitmarket/session-gateway/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

type HTTPProfileRegistry struct {
	baseURL string
	client  *http.Client
}

func NewHTTPProfileRegistry(baseURL string, timeout time.Duration) *HTTPProfileRegistry {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPProfileRegistry{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type profilePayload struct {
	IdentityID string `json:"identity_id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone,omitempty"`
	Role       string `json:"role"`
	AvatarURL  string `json:"avatar_url,omitempty"`
}

// Upsert creates or refreshes the marketplace profile for identity.
func (r *HTTPProfileRegistry) Upsert(ctx context.Context, identity *domain.Identity) error {
	payload, err := json.Marshal(profilePayload{
		IdentityID: identity.ID,
		Email:      identity.Email,
		FirstName:  identity.FirstName,
		LastName:   identity.LastName,
		Phone:      identity.Phone,
		Role:       string(identity.Role),
		AvatarURL:  identity.AvatarURL,
	})
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, r.baseURL+"/profiles/"+identity.ID, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("profile upsert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("profile upsert: backend returned %d", resp.StatusCode)
	}
	return nil
}
