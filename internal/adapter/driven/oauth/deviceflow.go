// Package oauth implements the Authenticator port with the GitHub OAuth
// device-authorization flow. The core treats the handshake as opaque: it asks
// for a token and either gets one or an error.
package oauth

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	"github.com/AranL152/GeetCode/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Authenticator = (*DeviceFlow)(nil)

// DeviceFlow performs the device-authorization handshake against GitHub.
// Prompt is invoked with the verification URL and one-time code so the UI can
// show them to the user; when nil they are logged instead.
type DeviceFlow struct {
	cfg    *oauth2.Config
	Prompt func(verificationURI, userCode string)
}

// NewDeviceFlow creates a DeviceFlow for the given OAuth app client ID.
// The repo scope is required to write repository contents.
func NewDeviceFlow(clientID string) *DeviceFlow {
	return &DeviceFlow{
		cfg: &oauth2.Config{
			ClientID: clientID,
			Endpoint: githuboauth.Endpoint,
			Scopes:   []string{"repo"},
		},
	}
}

// Authenticate runs the device flow to completion: request a device code,
// surface it to the user, then poll until the user approves or ctx expires.
func (d *DeviceFlow) Authenticate(ctx context.Context) (string, error) {
	auth, err := d.cfg.DeviceAuth(ctx)
	if err != nil {
		return "", fmt.Errorf("requesting device code: %w", err)
	}

	if d.Prompt != nil {
		d.Prompt(auth.VerificationURI, auth.UserCode)
	} else {
		slog.Info("authorize this device",
			"url", auth.VerificationURI,
			"code", auth.UserCode,
		)
	}

	tok, err := d.cfg.DeviceAccessToken(ctx, auth)
	if err != nil {
		return "", fmt.Errorf("waiting for device authorization: %w", err)
	}

	return tok.AccessToken, nil
}
