package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campaignstudio/internal/infra"
	"campaignstudio/internal/sqlinline"
)

// ProviderGemini keys the Gemini image API token.
const ProviderGemini = "gemini"

// ErrEmptyToken is returned when asked to store a blank token.
var ErrEmptyToken = errors.New("credentials: token is required")

// Store reads and writes provider tokens kept in integration_tokens, so the
// API can start without the key in its environment.
type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// Token returns the stored token for provider, or "" when none is stored.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	var token string
	if err := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider).Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("credentials: load %s token: %w", provider, err)
	}
	return strings.TrimSpace(token), nil
}

// SetToken stores token for provider, replacing any previous value.
func (s *Store) SetToken(ctx context.Context, provider, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	if _, err := s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, token); err != nil {
		return fmt.Errorf("credentials: store %s token: %w", provider, err)
	}
	return nil
}

// ResolveGeminiAPIKey prefers the explicit key and falls back to the stored one.
func (s *Store) ResolveGeminiAPIKey(ctx context.Context, explicit string) (string, error) {
	if key := strings.TrimSpace(explicit); key != "" {
		return key, nil
	}
	return s.Token(ctx, ProviderGemini)
}
