package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

const signInEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// FirebaseProvider implements Provider on top of the Firebase Admin SDK
// for account management plus the Identity Toolkit REST endpoint for
// password sign-in (the Admin SDK has no password grant).
type FirebaseProvider struct {
	client *fbauth.Client
	apiKey string
	http   *http.Client

	mu      sync.Mutex
	current *Identity
}

// NewFirebaseProvider connects to the Firebase project. credentialsFile
// may be empty when application default credentials are available.
func NewFirebaseProvider(ctx context.Context, projectID, apiKey, credentialsFile string) (*FirebaseProvider, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: init app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: init auth client: %w", err)
	}
	return &FirebaseProvider{
		client: client,
		apiKey: apiKey,
		http:   &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Error       *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (Identity, error) {
	body, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return Identity{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, signInEndpoint+"?key="+p.apiKey, bytes.NewReader(body))
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	var parsed signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Identity{}, fmt.Errorf("%w: decode response: %v", ErrProviderUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		// Credential rejections come back as 400 with a symbolic message.
		if resp.StatusCode == http.StatusBadRequest {
			return Identity{}, ErrInvalidCredentials
		}
		msg := ""
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return Identity{}, fmt.Errorf("%w: status %d %s", ErrProviderUnavailable, resp.StatusCode, msg)
	}

	ident := Identity{
		UID:         parsed.LocalID,
		Email:       parsed.Email,
		DisplayName: parsed.DisplayName,
		CreatedAt:   time.Now().UTC(),
	}
	if rec, err := p.client.GetUser(ctx, parsed.LocalID); err == nil {
		ident.DisplayName = rec.DisplayName
		ident.CreatedAt = time.UnixMilli(rec.UserMetadata.CreationTimestamp).UTC()
	}

	p.mu.Lock()
	p.current = &ident
	p.mu.Unlock()
	return ident, nil
}

func (p *FirebaseProvider) SignUp(ctx context.Context, email, password, displayName string) (Identity, error) {
	params := (&fbauth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)
	rec, err := p.client.CreateUser(ctx, params)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: create user: %v", ErrProviderUnavailable, err)
	}
	ident := Identity{
		UID:         rec.UID,
		Email:       rec.Email,
		DisplayName: rec.DisplayName,
		CreatedAt:   time.UnixMilli(rec.UserMetadata.CreationTimestamp).UTC(),
	}
	p.mu.Lock()
	p.current = &ident
	p.mu.Unlock()
	return ident, nil
}

func (p *FirebaseProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	current := p.current
	p.current = nil
	p.mu.Unlock()
	if current == nil {
		return nil
	}
	// Revoke refresh tokens so the provider-side session dies too.
	if err := p.client.RevokeRefreshTokens(ctx, current.UID); err != nil {
		return fmt.Errorf("%w: revoke tokens: %v", ErrProviderUnavailable, err)
	}
	return nil
}

func (p *FirebaseProvider) CurrentIdentity(ctx context.Context) (*Identity, error) {
	p.mu.Lock()
	current := p.current
	p.mu.Unlock()
	if current == nil {
		return nil, nil
	}
	rec, err := p.client.GetUser(ctx, current.UID)
	if err != nil {
		return nil, fmt.Errorf("%w: get user: %v", ErrProviderUnavailable, err)
	}
	ident := Identity{
		UID:         rec.UID,
		Email:       rec.Email,
		DisplayName: rec.DisplayName,
		CreatedAt:   time.UnixMilli(rec.UserMetadata.CreationTimestamp).UTC(),
	}
	return &ident, nil
}
