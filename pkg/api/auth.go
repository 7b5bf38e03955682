package api

import (
	json "github.com/json-iterator/go"
	"github.com/touchgrass/cli/pkg/client"
	"github.com/touchgrass/cli/pkg/logger"
)

// Login authenticates user with email and password
func Login(email, password string) (*LoginResponse, error) {
	logger.Debug("Attempting login", "email", email)

	req := LoginRequest{
		Email:    email,
		Password: password,
	}

	resp, err := client.GetClient().
		R().
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/v1/auth/login")

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var loginResp LoginResponse
	if err := json.Unmarshal(resp.Body(), &loginResp); err != nil {
		return nil, err
	}

	logger.Debug("Login successful", "username", loginResp.User.Username)
	return &loginResp, nil
}

// Register creates a new account
func Register(req RegisterRequest) (*LoginResponse, error) {
	logger.Debug("Registering account", "email", req.Email, "username", req.Username)

	resp, err := client.GetClient().
		R().
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/v1/auth/register")

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var loginResp LoginResponse
	if err := json.Unmarshal(resp.Body(), &loginResp); err != nil {
		return nil, err
	}

	logger.Debug("Registration successful", "username", loginResp.User.Username)
	return &loginResp, nil
}

// Refresh refreshes the access token using refresh token
func Refresh(refreshToken string) (*RefreshResponse, error) {
	logger.Debug("Refreshing access token")

	req := RefreshRequest{
		RefreshToken: refreshToken,
	}

	resp, err := client.GetClient().
		R().
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/v1/auth/refresh")

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var refreshResp RefreshResponse
	if err := json.Unmarshal(resp.Body(), &refreshResp); err != nil {
		return nil, err
	}

	logger.Debug("Access token refreshed")
	return &refreshResp, nil
}

// GetCurrentUser gets the current authenticated user
func GetCurrentUser() (*User, error) {
	logger.Debug("Fetching current user")

	resp, err := client.GetClient().
		R().
		Get("/api/v1/auth/me")

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var profileResp ProfileResponse
	if err := json.Unmarshal(resp.Body(), &profileResp); err != nil {
		return nil, err
	}

	logger.Debug("Current user fetched", "username", profileResp.User.Username)
	return &profileResp.User, nil
}
