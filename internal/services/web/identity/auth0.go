package identity

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

var loginScopes = []string{"openid", "profile", "email", "offline_access"}

// Auth0Config configures the Auth0 provider.
type Auth0Config struct {
	Domain       Domain
	ClientID     string
	ClientSecret string
	Audience     string
	// RedirectURL is the absolute callback URL registered with the tenant.
	RedirectURL string
	// HTTPClient is used for token and key requests. Nil uses http.DefaultClient.
	HTTPClient *http.Client
	// Keys overrides the keyset, letting the API verifier share one cache.
	Keys *Keyset
}

// Auth0 implements Provider for an Auth0 tenant using authorization code
// with PKCE.
type Auth0 struct {
	oauth    *oauth2.Config
	domain   Domain
	clientID string
	audience string
	idTokens tokenVerifier
	client   *http.Client
}

type idTokenClaims struct {
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// NewAuth0 builds the provider. The keyset refreshes in the background until
// ctx is cancelled.
func NewAuth0(ctx context.Context, cfg Auth0Config) (*Auth0, error) {
	if strings.TrimSpace(cfg.Domain.BaseURL()) == "" {
		return nil, fmt.Errorf("auth0 domain is required")
	}
	if strings.TrimSpace(cfg.ClientID) == "" {
		return nil, fmt.Errorf("auth0 client id is required")
	}
	if strings.TrimSpace(cfg.RedirectURL) == "" {
		return nil, fmt.Errorf("auth0 redirect url is required")
	}
	keys := cfg.Keys
	if keys == nil {
		keys = NewKeyset(ctx, cfg.Domain, cfg.HTTPClient)
	}

	return &Auth0{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       loginScopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.Domain.URL("/authorize"),
				TokenURL:  cfg.Domain.URL("/oauth/token"),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		domain:   cfg.Domain,
		clientID: cfg.ClientID,
		audience: cfg.Audience,
		idTokens: tokenVerifier{
			keys:     keys,
			issuer:   cfg.Domain.Issuer(),
			audience: cfg.ClientID,
		},
		client: cfg.HTTPClient,
	}, nil
}

// BeginLogin returns the authorize URL with an S256 code challenge.
func (a *Auth0) BeginLogin(state, verifier string) string {
	options := []oauth2.AuthCodeOption{oauth2.S256ChallengeOption(verifier)}
	if a.audience != "" {
		options = append(options, oauth2.SetAuthURLParam("audience", a.audience))
	}
	return a.oauth.AuthCodeURL(state, options...)
}

// Exchange trades an authorization code for tokens and the verified user.
func (a *Auth0) Exchange(ctx context.Context, code, verifier string) (Grant, error) {
	token, err := a.oauth.Exchange(a.clientContext(ctx), code, oauth2.VerifierOption(verifier))
	if err != nil {
		return Grant{}, fmt.Errorf("%w: %w", ErrExchange, err)
	}
	grant, err := a.grantFromToken(ctx, token)
	if err != nil {
		return Grant{}, err
	}
	if grant.User.Subject == "" {
		return Grant{}, fmt.Errorf("%w: token response has no id_token", ErrParseToken)
	}
	return grant, nil
}

// Refresh trades a refresh token for new tokens. The returned user is zero
// when the provider omits the ID token.
func (a *Auth0) Refresh(ctx context.Context, refreshToken string) (Grant, error) {
	source := a.oauth.TokenSource(a.clientContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return Grant{}, fmt.Errorf("%w: %w", ErrRefresh, err)
	}
	return a.grantFromToken(ctx, token)
}

// EndSession returns the tenant logout URL.
func (a *Auth0) EndSession(returnTo string) string {
	query := url.Values{}
	query.Set("client_id", a.clientID)
	if returnTo != "" {
		query.Set("returnTo", returnTo)
	}
	return a.domain.URL("/v2/logout") + "?" + query.Encode()
}

func (a *Auth0) grantFromToken(ctx context.Context, token *oauth2.Token) (Grant, error) {
	grant := Grant{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}
	rawIDToken, _ := token.Extra("id_token").(string)
	if rawIDToken == "" {
		return grant, nil
	}
	var claims idTokenClaims
	if err := a.idTokens.parse(ctx, rawIDToken, &claims); err != nil {
		return Grant{}, err
	}
	grant.User = User{
		Subject:  claims.Subject,
		Name:     claims.Name,
		Nickname: claims.Nickname,
		Email:    claims.Email,
	}
	return grant, nil
}

func (a *Auth0) clientContext(ctx context.Context) context.Context {
	if a.client == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, a.client)
}

var _ Provider = (*Auth0)(nil)
