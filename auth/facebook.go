package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultFacebookGraphURL is the production Graph API base.
const DefaultFacebookGraphURL = "https://graph.facebook.com"

const defaultFacebookTimeout = 10 * time.Second

// FacebookVerifier validates Facebook access tokens with two Graph API calls:
// token introspection (debug_token) with the app credential, then a profile
// fetch (/me) with the user's own token. Both must succeed.
type FacebookVerifier struct {
	appID     string
	appSecret string
	graphURL  string
	client    *http.Client
}

// NewFacebookVerifier builds a verifier for the given app credential pair.
// graphURL and client may be zero-valued; defaults include an explicit
// timeout so a stalled Graph API surfaces as a verification failure instead
// of hanging the request.
func NewFacebookVerifier(appID, appSecret, graphURL string, client *http.Client) (*FacebookVerifier, error) {
	if appID == "" || appSecret == "" {
		return nil, fmt.Errorf("facebook app ID and secret cannot be empty")
	}
	if graphURL == "" {
		graphURL = DefaultFacebookGraphURL
	}
	if client == nil {
		client = &http.Client{Timeout: defaultFacebookTimeout}
	}

	return &FacebookVerifier{
		appID:     appID,
		appSecret: appSecret,
		graphURL:  graphURL,
		client:    client,
	}, nil
}

func (v *FacebookVerifier) Provider() Provider {
	return ProviderFacebook
}

// debugTokenResponse mirrors the Graph API debug_token envelope.
type debugTokenResponse struct {
	Data struct {
		IsValid bool   `json:"is_valid"`
		UserID  string `json:"user_id"`
	} `json:"data"`
}

// profileResponse mirrors the Graph API /me response.
type profileResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Verify introspects the token and fetches the profile. Any transport or
// parse fault is converted to a *VerificationError; nothing propagates raw
// into the request pipeline.
func (v *FacebookVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	userID, err := v.introspect(ctx, token)
	if err != nil {
		return nil, err
	}

	profile, err := v.fetchProfile(ctx, token)
	if err != nil {
		return nil, err
	}

	return &Claims{
		Subject:  userID,
		Email:    profile.Email,
		Name:     profile.Name,
		Provider: ProviderFacebook,
	}, nil
}

func (v *FacebookVerifier) introspect(ctx context.Context, token string) (string, error) {
	query := url.Values{
		"input_token":  {token},
		"access_token": {v.appID + "|" + v.appSecret},
	}

	var resp debugTokenResponse
	if err := v.getJSON(ctx, v.graphURL+"/debug_token?"+query.Encode(), &resp); err != nil {
		return "", &VerificationError{
			Provider: ProviderFacebook,
			Reason:   "token introspection failed",
			Err:      err,
		}
	}

	if !resp.Data.IsValid || resp.Data.UserID == "" {
		return "", &VerificationError{
			Provider: ProviderFacebook,
			Reason:   "token reported invalid by introspection",
		}
	}

	return resp.Data.UserID, nil
}

func (v *FacebookVerifier) fetchProfile(ctx context.Context, token string) (*profileResponse, error) {
	query := url.Values{
		"fields":       {"id,name,email"},
		"access_token": {token},
	}

	var resp profileResponse
	if err := v.getJSON(ctx, v.graphURL+"/me?"+query.Encode(), &resp); err != nil {
		return nil, &VerificationError{
			Provider: ProviderFacebook,
			Reason:   "profile fetch failed",
			Err:      err,
		}
	}

	return &resp, nil
}

func (v *FacebookVerifier) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("Facebook Graph API call failed")
		return fmt.Errorf("graph API call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("Facebook Graph API returned non-success status")
		return fmt.Errorf("graph API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode graph API response: %w", err)
	}

	return nil
}
