// Package lastfm scrobbles tagged items to Last.fm.
package lastfm

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/shkh/lastfm-go/lastfm"
)

// ErrNotAuthenticated is returned when no session key is set.
var ErrNotAuthenticated = errors.New("not authenticated")

const authURL = "https://www.last.fm/api/auth/"

// Client wraps the Last.fm API for linking an account and scrobbling.
type Client struct {
	api        *lastfm.Api
	apiKey     string
	sessionKey string
}

// New creates a client with the application credentials.
func New(apiKey, apiSecret string) *Client {
	return &Client{api: lastfm.New(apiKey, apiSecret), apiKey: apiKey}
}

// SetSessionKey sets the key of a linked account.
func (c *Client) SetSessionKey(key string) {
	c.sessionKey = key
	c.api.SetSession(key)
}

// IsAuthenticated reports whether an account is linked.
func (c *Client) IsAuthenticated() bool {
	return c.sessionKey != ""
}

// Token requests a token for the desktop authorization flow.
func (c *Client) Token() (string, error) {
	token, err := c.api.GetToken()
	if err != nil {
		return "", fmt.Errorf("get token: %w", err)
	}
	return token, nil
}

// AuthURL is the page where the user grants access for token.
func (c *Client) AuthURL(token string) string {
	q := url.Values{"api_key": {c.apiKey}, "token": {token}}
	return authURL + "?" + q.Encode()
}

// Session exchanges an authorized token for a session key and links it.
func (c *Client) Session(token string) (username, sessionKey string, err error) {
	if err := c.api.LoginWithToken(token); err != nil {
		return "", "", fmt.Errorf("get session: %w", err)
	}
	c.SetSessionKey(c.api.GetSessionKey())

	info, err := c.api.User.GetInfo(nil)
	if err != nil {
		// The session is valid; only the display name is missing.
		return "", c.sessionKey, nil //nolint:nilerr // username is optional
	}
	return info.Name, c.sessionKey, nil
}

// UpdateNowPlaying announces t as currently playing.
func (c *Client) UpdateNowPlaying(t Track) error {
	if !c.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if _, err := c.api.Track.UpdateNowPlaying(t.params()); err != nil {
		return fmt.Errorf("update now playing: %w", err)
	}
	return nil
}

// Scrobble submits a completed play of t.
func (c *Client) Scrobble(t Track) error {
	if !c.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	p := t.params()
	p["timestamp"] = t.StartedAt.Unix()
	if _, err := c.api.Track.Scrobble(p); err != nil {
		return fmt.Errorf("scrobble: %w", err)
	}
	return nil
}

func (t Track) params() lastfm.P {
	p := lastfm.P{"artist": t.Artist, "track": t.Title}
	if t.Album != "" {
		p["album"] = t.Album
	}
	if t.Duration > 0 {
		p["duration"] = int(t.Duration.Seconds())
	}
	return p
}
