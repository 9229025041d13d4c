package backend

import (
	"context"
	"net/http"

	pkgerrors "github.com/tallypos/terminal/pkg/errors"
)

// Login exchanges credentials for an access token. The token itself is
// opaque to the client; the session guard decodes the claims.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, LoginRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", pkgerrors.New(pkgerrors.CodeRemoteRejected, "backend returned an empty access token")
	}
	return resp.AccessToken, nil
}
