package sessions

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"

	"mcpanel/clients"
	"mcpanel/config"
	"mcpanel/core"
	"mcpanel/models"
	"mcpanel/services"
	"mcpanel/signupnotif"
)

const (
	discordAuthorizeURL = "https://discord.com/oauth2/authorize"
	oauthScope          = "identify guilds"

	sessionIssuer   = "mcpanel"
	sessionIDPrefix = "ses"
	clockLeeway     = 30 * time.Second
)

type SessionsService struct {
	identitiesService services.IdentitiesService
	discordClient     clients.DiscordClient
	discordConfig     config.DiscordConfig
	signingKey        []byte
	ttl               time.Duration
	signer            jose.Signer
	now               func() time.Time
}

func NewSessionsService(
	identitiesService services.IdentitiesService,
	discordClient clients.DiscordClient,
	discordConfig config.DiscordConfig,
	sessionConfig config.SessionConfig,
) (*SessionsService, error) {
	if !sessionConfig.IsConfigured() {
		return nil, fmt.Errorf("session secret must be at least 32 bytes and TTL must be positive")
	}

	signingKey := []byte(sessionConfig.Secret)
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: signingKey},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session signer: %w", err)
	}

	return &SessionsService{
		identitiesService: identitiesService,
		discordClient:     discordClient,
		discordConfig:     discordConfig,
		signingKey:        signingKey,
		ttl:               sessionConfig.TTL,
		signer:            signer,
		now:               time.Now,
	}, nil
}

// AuthorizationURL is where the browser is sent to start a login
func (s *SessionsService) AuthorizationURL() string {
	params := url.Values{}
	params.Set("client_id", s.discordConfig.ClientID)
	params.Set("redirect_uri", s.discordConfig.RedirectURI)
	params.Set("response_type", "code")
	params.Set("scope", oauthScope)
	return discordAuthorizeURL + "?" + params.Encode()
}

// CompleteLogin exchanges the callback code, links the Discord account and issues a session.
// Every failure is terminal for this login attempt.
func (s *SessionsService) CompleteLogin(ctx context.Context, code string) (*models.LoginResult, error) {
	log.Printf("📋 Starting to complete Discord login")
	if code == "" {
		return nil, core.ErrMissingAuthorizationCode
	}

	token, err := s.discordClient.ExchangeCodeForToken(
		ctx,
		s.discordConfig.ClientID,
		s.discordConfig.ClientSecret,
		code,
		s.discordConfig.RedirectURI,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrAuthorizationExchangeFailed, err)
	}

	profile, err := s.discordClient.GetCurrentUser(ctx, token.AccessToken)
	if err != nil {
		if errors.Is(err, core.ErrUpstreamUnavailable) {
			return nil, fmt.Errorf("failed to fetch Discord profile: %w", err)
		}
		return nil, fmt.Errorf("failed to fetch Discord profile: %w: %w", core.ErrUpstreamUnavailable, err)
	}

	identity := &models.Identity{
		ID:             profile.ID,
		DisplayName:    profile.Username,
		AvatarRef:      profile.AvatarRef,
		DelegatedToken: token.AccessToken,
	}
	created, err := s.identitiesService.UpsertIdentity(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to link identity: %w", err)
	}

	if created {
		signupnotif.New(identity.ID, fmt.Sprintf("%s linked their Discord account", identity.DisplayName))
	}

	session, err := s.IssueSession(identity.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("📋 Completed successfully - linked identity %s (created: %t), session %s", identity.ID, created, session.ID)
	return &models.LoginResult{
		Identity: identity,
		Session:  session,
		Created:  created,
	}, nil
}

// IssueSession signs a session token for identityID valid for the configured TTL
func (s *SessionsService) IssueSession(identityID string) (*models.Session, error) {
	if identityID == "" {
		return nil, core.ValidationError("identity ID cannot be empty")
	}

	issuedAt := s.now().UTC().Truncate(time.Second)
	session := &models.Session{
		ID:         core.NewID(sessionIDPrefix),
		IdentityID: identityID,
		IssuedAt:   issuedAt,
		ExpiresAt:  issuedAt.Add(s.ttl),
	}

	claims := jwt.Claims{
		Issuer:   sessionIssuer,
		Subject:  identityID,
		ID:       session.ID,
		IssuedAt: jwt.NewNumericDate(session.IssuedAt),
		Expiry:   jwt.NewNumericDate(session.ExpiresAt),
	}

	token, err := jwt.Signed(s.signer).Claims(claims).CompactSerialize()
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	session.Token = token

	return session, nil
}

// VerifySession checks signature, issuer and expiry of a session token
func (s *SessionsService) VerifySession(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, fmt.Errorf("empty session token: %w", core.ErrInvalidSession)
	}

	parsed, err := jwt.ParseSigned(token)
	if err != nil {
		return nil, fmt.Errorf("malformed session token: %w", core.ErrInvalidSession)
	}
	if len(parsed.Headers) != 1 || parsed.Headers[0].Algorithm != string(jose.HS256) {
		return nil, fmt.Errorf("unexpected session token algorithm: %w", core.ErrInvalidSession)
	}

	var claims jwt.Claims
	if err := parsed.Claims(s.signingKey, &claims); err != nil {
		return nil, fmt.Errorf("invalid session token signature: %w", core.ErrInvalidSession)
	}

	if claims.Expiry == nil {
		return nil, fmt.Errorf("session token has no expiry: %w", core.ErrInvalidSession)
	}
	expected := jwt.Expected{Issuer: sessionIssuer, Time: s.now()}
	if err := claims.ValidateWithLeeway(expected, clockLeeway); err != nil {
		return nil, fmt.Errorf("session token rejected: %v: %w", err, core.ErrInvalidSession)
	}
	if claims.Subject == "" || !core.IsValidID(claims.ID, sessionIDPrefix) {
		return nil, fmt.Errorf("session token claims are incomplete: %w", core.ErrInvalidSession)
	}

	session := &models.Session{
		ID:         claims.ID,
		IdentityID: claims.Subject,
		Token:      token,
		ExpiresAt:  claims.Expiry.Time().UTC(),
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time().UTC()
	}
	return session, nil
}
