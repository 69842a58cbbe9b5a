package cms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/sasch040/salesacademy-sub000/models"
)

// FindUserByEmail resolves an email address to the CMS user entity.
// ErrNotFound when no user matches.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (*models.AuthUser, error) {
	q := url.Values{}
	filterEq(q, email, "email")

	// The users endpoint answers with a bare array, not a data envelope.
	var raw []json.RawMessage
	if err := c.get(ctx, "/api/users", q, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrNotFound
	}

	var user models.AuthUser
	if err := decodeEntity(raw[0], &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login proxies a credential pair to the CMS's local auth endpoint and maps
// its rejection onto ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	body := map[string]string{
		"identifier": email,
		"password":   password,
	}

	var resp struct {
		JWT  string          `json:"jwt"`
		User json.RawMessage `json:"user"`
	}
	err := c.request(ctx, http.MethodPost, "/api/auth/local", nil, body, &resp)
	if err != nil {
		// The CMS answers 400 to bad credentials, not 401.
		if errorsIsRejection(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if resp.JWT == "" {
		return nil, ErrBadShape
	}

	result := models.LoginResult{Token: resp.JWT}
	if len(resp.User) > 0 {
		if err := decodeEntity(resp.User, &result.User); err != nil {
			return nil, err
		}
	}
	return &result, nil
}
