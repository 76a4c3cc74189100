package oauth

import (
	"context"
	"net/http"
	"time"

	"flightdata-service/internal/interface/provider"
	"flightdata-service/pkg/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// OpenSkyOAuth handles OAuth client-credentials authentication against the
// OpenSky Network token endpoint.
type OpenSkyOAuth struct {
	config *clientcredentials.Config
	logger logger.Logger
}

// NewOpenSkyOAuth creates a new OpenSky OAuth handler
func NewOpenSkyOAuth(clientID, clientSecret string, logger logger.Logger) *OpenSkyOAuth {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     provider.OpenSkyTokenURL,
	}

	return &OpenSkyOAuth{
		config: config,
		logger: logger,
	}
}

// HTTPClient returns an http.Client that injects fresh bearer tokens.
func (o *OpenSkyOAuth) HTTPClient(ctx context.Context) *http.Client {
	client := o.config.Client(ctx)
	client.Timeout = 15 * time.Second
	return client
}

// Token fetches a token once, to validate the configured credentials.
func (o *OpenSkyOAuth) Token(ctx context.Context) (*oauth2.Token, error) {
	token, err := o.config.Token(ctx)
	if err != nil {
		return nil, err
	}

	o.logger.Info("OpenSky token obtained", "expiry", token.Expiry)
	return token, nil
}
