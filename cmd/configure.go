package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"drive-mirror/internal/auth"
	"drive-mirror/internal/logger"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// clientCredentials is the on-disk shape of an OAuth client for installed
// applications, matching what the Google Cloud Console exports.
type clientCredentials struct {
	Installed installedClient `json:"installed"`
}

type installedClient struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	AuthURI      string   `json:"auth_uri"`
	TokenURI     string   `json:"token_uri"`
	RedirectURIs []string `json:"redirect_uris"`
}

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Store OAuth client credentials for interactive authorization",
	Long: `Prompts for an OAuth client ID and secret and writes them to the
credentials file in the Cloud Console export format. The consent flow
run by --no-service-account reads this file.`,
	RunE: runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	clientID, err := promptForInput("Client ID", 0)
	if err != nil {
		return err
	}
	clientSecret, err := promptForInput("Client Secret", '*')
	if err != nil {
		return err
	}

	creds := clientCredentials{
		Installed: installedClient{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			AuthURI:      "https://accounts.google.com/o/oauth2/auth",
			TokenURI:     "https://oauth2.googleapis.com/token",
			RedirectURIs: []string{auth.RedirectURL},
		},
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if err := os.WriteFile(cfg.CredentialsFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.CredentialsFile, err)
	}

	logger.Info("Wrote OAuth client credentials to %s", cfg.CredentialsFile)
	logger.Info("Run with --no-service-account to authorize in the browser.")
	return nil
}

// promptForInput asks for one required value, masking the echo when mask is
// not zero.
func promptForInput(label string, mask rune) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Mask:  mask,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("%s must not be empty", label)
			}
			return nil
		},
	}
	result, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}
	return strings.TrimSpace(result), nil
}
