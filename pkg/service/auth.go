package service

import (
	"fmt"
	"time"

	"github.com/touchgrass/cli/pkg/api"
	"github.com/touchgrass/cli/pkg/client"
	"github.com/touchgrass/cli/pkg/credentials"
	"github.com/touchgrass/cli/pkg/logger"
	"github.com/touchgrass/cli/pkg/output"
	"github.com/touchgrass/cli/pkg/prompter"
)

type AuthService struct{}

// NewAuthService creates a new auth service
func NewAuthService() *AuthService {
	return &AuthService{}
}

// Login handles user login
func (s *AuthService) Login() error {
	creds, err := credentials.Load()
	if err != nil {
		logger.Error("Failed to load credentials", "error", err)
		return err
	}

	if creds != nil && creds.IsValid() {
		output.PrintWarning("Already logged in as %s", creds.Username)
		confirm, err := prompter.PromptConfirm("Continue with new login?")
		if err != nil {
			return err
		}
		if !confirm {
			return nil
		}
	}

	email, err := prompter.PromptString("Email: ")
	if err != nil {
		return err
	}
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	password, err := prompter.PromptPassword("Password: ")
	if err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	client.Init()

	output.PrintInfo("Authenticating...")
	loginResp, err := api.Login(email, password)
	if err != nil {
		output.PrintError("Login failed: %v", err)
		return err
	}

	client.SetAuthToken(loginResp.AccessToken)

	if err := s.saveSession(loginResp); err != nil {
		output.PrintError("Failed to save credentials: %v", err)
		return err
	}

	output.PrintSuccess("Logged in as %s", loginResp.User.Username)
	return nil
}

// Register creates a new account and logs it in
func (s *AuthService) Register() error {
	email, err := prompter.PromptString("Email: ")
	if err != nil {
		return err
	}
	username, err := prompter.PromptString("Username: ")
	if err != nil {
		return err
	}
	displayName, err := prompter.PromptString("Display name: ")
	if err != nil {
		return err
	}
	password, err := prompter.PromptPassword("Password: ")
	if err != nil {
		return err
	}

	if email == "" || username == "" || password == "" {
		return fmt.Errorf("email, username and password are required")
	}

	client.Init()

	output.PrintInfo("Creating account...")
	resp, err := api.Register(api.RegisterRequest{
		Email:       email,
		Username:    username,
		Password:    password,
		DisplayName: displayName,
	})
	if err != nil {
		output.PrintError("Registration failed: %v", err)
		return err
	}

	client.SetAuthToken(resp.AccessToken)

	if err := s.saveSession(resp); err != nil {
		output.PrintError("Failed to save credentials: %v", err)
		return err
	}

	output.PrintSuccess("Welcome to Touch Grass, %s!", resp.User.Username)
	return nil
}

// Logout clears the saved session
func (s *AuthService) Logout() error {
	creds, err := credentials.Load()
	if err != nil {
		return err
	}
	if creds == nil {
		output.PrintInfo("Not logged in")
		return nil
	}

	if err := credentials.Delete(); err != nil {
		output.PrintError("Failed to remove credentials: %v", err)
		return err
	}

	client.ClearAuthToken()
	output.PrintSuccess("Logged out")
	return nil
}

// Whoami shows the current session
func (s *AuthService) Whoami() error {
	creds, err := RequireAuth()
	if err != nil {
		return err
	}

	user, err := api.GetCurrentUser()
	if err != nil {
		output.PrintError("Failed to fetch profile: %v", err)
		return err
	}

	return output.PrintRecord("Logged in", map[string]interface{}{
		"Username": user.Username,
		"Email":    user.Email,
		"Level":    user.Level,
		"XP":       user.XP,
		"Streak":   fmt.Sprintf("%d days", user.Streak),
		"Expires":  creds.ExpiresAt.Format(time.RFC822),
	})
}

func (s *AuthService) saveSession(resp *api.LoginResponse) error {
	expiresAt := time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	if fromToken, ok := credentials.TokenExpiry(resp.AccessToken); ok {
		expiresAt = fromToken
	}

	return credentials.Save(&credentials.Credentials{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    expiresAt,
		UserID:       resp.User.ID,
		Username:     resp.User.Username,
		Email:        resp.User.Email,
	})
}

// RequireAuth loads the saved session, refreshing the access token when it
// has expired. It initializes the HTTP client on success.
func RequireAuth() (*credentials.Credentials, error) {
	creds, err := credentials.Load()
	if err != nil {
		return nil, err
	}
	if creds == nil {
		return nil, fmt.Errorf("not logged in, run 'touchgrass auth login'")
	}

	client.Init()

	if creds.IsExpired() {
		logger.Debug("Access token expired, refreshing")
		resp, err := api.Refresh(creds.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("session expired, run 'touchgrass auth login'")
		}

		creds.AccessToken = resp.AccessToken
		creds.ExpiresAt = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
		if fromToken, ok := credentials.TokenExpiry(resp.AccessToken); ok {
			creds.ExpiresAt = fromToken
		}
		if err := credentials.Save(creds); err != nil {
			logger.Warn("Failed to persist refreshed token", "error", err)
		}
	}

	client.SetAuthToken(creds.AccessToken)
	return creds, nil
}
