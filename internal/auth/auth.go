package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"drive-mirror/internal/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// driveReadOnlyScope is the only scope the tool ever requests; mirroring
// never writes to the remote side.
const driveReadOnlyScope = "https://www.googleapis.com/auth/drive.readonly"

// Mode selects how session credentials are obtained.
type Mode int

const (
	// ModeServiceAccount reads a service identity key file. The default,
	// since shared folders are usually mirrored unattended.
	ModeServiceAccount Mode = iota
	// ModeInteractive runs the browser consent flow and caches the token.
	ModeInteractive
)

func (m Mode) String() string {
	switch m {
	case ModeServiceAccount:
		return "service account"
	case ModeInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}

// AuthError wraps any failure to establish session credentials. It is
// always fatal and always precedes the first remote call.
type AuthError struct {
	Mode Mode
	Err  error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s authentication failed: %v", e.Mode, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Options carries the credential file locations for both modes.
type Options struct {
	ServiceAccountFile string
	CredentialsFile    string
	TokenFile          string
}

// TokenSource returns session credentials for the requested mode. There is
// no fallback between modes: a missing key file in service-account mode is
// an AuthError, not a reason to start the consent flow.
func TokenSource(ctx context.Context, mode Mode, opts Options) (oauth2.TokenSource, error) {
	switch mode {
	case ModeServiceAccount:
		return serviceAccountTokenSource(ctx, opts.ServiceAccountFile)
	case ModeInteractive:
		return interactiveTokenSource(ctx, opts.CredentialsFile, opts.TokenFile)
	default:
		return nil, &AuthError{Mode: mode, Err: fmt.Errorf("unknown authentication mode %d", mode)}
	}
}

// Verify forces one token fetch so credential problems surface before any
// remote listing starts.
func Verify(ts oauth2.TokenSource, mode Mode) error {
	if _, err := ts.Token(); err != nil {
		return &AuthError{Mode: mode, Err: err}
	}
	return nil
}

func serviceAccountTokenSource(ctx context.Context, keyFile string) (oauth2.TokenSource, error) {
	data, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, &AuthError{Mode: ModeServiceAccount, Err: fmt.Errorf("cannot read key file %s: %w", keyFile, err)}
	}

	conf, err := google.JWTConfigFromJSON(data, driveReadOnlyScope)
	if err != nil {
		return nil, &AuthError{Mode: ModeServiceAccount, Err: fmt.Errorf("cannot parse key file %s: %w", keyFile, err)}
	}

	return conf.TokenSource(ctx), nil
}

func interactiveTokenSource(ctx context.Context, credentialsFile, tokenFile string) (oauth2.TokenSource, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, &AuthError{Mode: ModeInteractive, Err: fmt.Errorf("cannot read OAuth client file %s (run 'drive-mirror configure' first): %w", credentialsFile, err)}
	}

	conf, err := google.ConfigFromJSON(data, driveReadOnlyScope)
	if err != nil {
		return nil, &AuthError{Mode: ModeInteractive, Err: fmt.Errorf("cannot parse OAuth client file %s: %w", credentialsFile, err)}
	}
	// The consent flow needs the browser sent back to the local callback
	// server, whatever redirect the client file declares.
	conf.RedirectURL = RedirectURL

	if token, err := tokenFromFile(tokenFile); err == nil {
		logger.Debug("Using cached token from %s", tokenFile)
		return conf.TokenSource(ctx, token), nil
	}

	token, err := performConsentFlow(ctx, conf)
	if err != nil {
		return nil, &AuthError{Mode: ModeInteractive, Err: err}
	}

	if err := saveToken(tokenFile, token); err != nil {
		logger.Warning("Could not cache token to %s: %v", tokenFile, err)
	} else {
		logger.Info("Token cached to %s for future runs", tokenFile)
	}

	return conf.TokenSource(ctx, token), nil
}

// tokenFromFile loads a previously cached token.
func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("corrupt token cache %s: %w", path, err)
	}
	return token, nil
}

// saveToken writes the token cache with owner-only permissions.
func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}
