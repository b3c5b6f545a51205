package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"drive-mirror/internal/logger"

	"github.com/google/uuid"
	"github.com/pkg/browser"
	"golang.org/x/oauth2"
)

const (
	// RedirectURL is where the consent flow sends the browser back; a local
	// server on this port captures the authorization code.
	RedirectURL = "http://localhost:8080/callback"

	flowTimeout = 5 * time.Minute
)

// performConsentFlow walks the user through browser authorization and
// exchanges the resulting code for a token.
func performConsentFlow(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	// Random state for CSRF protection, checked by the callback handler.
	state := uuid.NewString()

	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			errChan <- fmt.Errorf("state mismatch")
			fmt.Fprintf(w, "Error: State mismatch. You can close this window.")
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			errChan <- fmt.Errorf("no authorization code received")
			fmt.Fprintf(w, "Error: No authorization code received. You can close this window.")
			return
		}

		codeChan <- code
		fmt.Fprintf(w, "Authorization successful! You can close this window and return to the terminal.")
	})

	server := &http.Server{Addr: ":8080", Handler: mux}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- fmt.Errorf("callback server error: %w", err)
		}
	}()

	logger.Info("Please authorize read access in your browser:")
	logger.Info("%s", authURL)
	if err := browser.OpenURL(authURL); err != nil {
		logger.Warning("Could not open a browser automatically, visit the URL above: %v", err)
	}

	// Wait for the code, a handler error, or the timeout.
	var code string
	select {
	case code = <-codeChan:
	case err := <-errChan:
		server.Shutdown(ctx)
		return nil, err
	case <-time.After(flowTimeout):
		server.Shutdown(ctx)
		return nil, fmt.Errorf("authorization timed out after %s", flowTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(shutdownCtx)

	token, err := config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}

	return token, nil
}
