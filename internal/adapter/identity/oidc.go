// internal/adapter/identity/oidc.go
package identity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/ArtGenApp/internal/config"
	"github.com/GoArmGo/ArtGenApp/internal/domain"
	"github.com/coreos/go-oidc/v3/oidc"
)

// Provider представляет адаптер внешнего identity-провайдера (OIDC).
// Проверяет bearer-токены запросов и отдает непрозрачный id пользователя;
// локальной таблицы пользователей нет, id — это sub из токена.
type Provider struct {
	verifier       *oidc.IDTokenVerifier
	avatarTemplate string
	logger         *slog.Logger
}

// NewProvider подключается к OIDC-провайдеру и настраивает верификатор токенов.
func NewProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Provider, error) {
	oidcProvider, err := oidc.NewProvider(ctx, cfg.OIDCIssuerURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания OIDC-провайдера: %w", err)
	}

	verifier := oidcProvider.Verifier(&oidc.Config{ClientID: cfg.OIDCClientID})

	logger.Info("OIDC provider initialized", "issuer", cfg.OIDCIssuerURL)

	return &Provider{
		verifier:       verifier,
		avatarTemplate: cfg.AvatarURLTemplate,
		logger:         logger,
	}, nil
}

// Authenticate проверяет bearer-токен и возвращает id пользователя.
// Пустая строка не возвращается: либо валидный sub, либо ошибка.
func (p *Provider) Authenticate(ctx context.Context, rawToken string) (string, error) {
	token, err := p.verifier.Verify(ctx, rawToken)
	if err != nil {
		return "", fmt.Errorf("ошибка проверки токена: %w", err)
	}
	if token.Subject == "" {
		return "", fmt.Errorf("токен без subject")
	}
	return token.Subject, nil
}

// ResolveProfiles возвращает отображаемые данные для пачки пользователей.
// Резолвим один раз на список, а не по одному на комментарий: снапшот
// авторов внутри одного ответа получается согласованным.
func (p *Provider) ResolveProfiles(ctx context.Context, userIDs []string) (map[string]domain.UserProfile, error) {
	profiles := make(map[string]domain.UserProfile, len(userIDs))
	for _, id := range userIDs {
		if id == "" {
			continue
		}
		if _, ok := profiles[id]; ok {
			continue
		}
		profiles[id] = domain.UserProfile{
			UserName:  id,
			AvatarURL: fmt.Sprintf(p.avatarTemplate, id),
		}
	}
	return profiles, nil
}
