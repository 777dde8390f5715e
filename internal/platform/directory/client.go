// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package directory talks to the company HR directory.

The directory exposes a single endpoint, `GET <url>?KEY=<key>`, that returns
the full roster. Every caller fetches it fresh; there is no cache.

# Security

Each roster record embeds a plaintext reference password. Login compares the
submitted password against it, so the password crosses the network and is
compared in cleartext. This is the directory's contract; the panel does not
store or derive passwords of its own.
*/
package directory

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var (
	// ErrInvalidCredentials covers both an unknown code and a wrong password.
	ErrInvalidCredentials = errors.New("directory: invalid credentials")

	// ErrUnavailable wraps transport failures and unexpected responses.
	ErrUnavailable = errors.New("directory: unavailable")
)

// maxBodyBytes bounds the roster payload.
const maxBodyBytes = 16 << 20

// APIError is an error payload reported by the directory itself.
type APIError struct {
	Message string
}

func (err *APIError) Error() string { return "API error: " + err.Message }

// Is makes an APIError match [ErrUnavailable].
func (err *APIError) Is(target error) bool { return target == ErrUnavailable }

// Client fetches the roster over HTTP.
type Client struct {
	endpoint string
	key      string
	http     *http.Client
}

// NewClient creates a directory client.
func NewClient(endpoint, key string, timeout time.Duration) (*Client, error) {
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("directory: invalid endpoint: %w", err)
	}

	return &Client{
		endpoint: endpoint,
		key:      key,
		http:     &http.Client{Timeout: timeout},
	}, nil
}

type rosterEnvelope struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Data    Roster `json:"data"`
}

// FetchRoster returns every person known to the directory.
func (client *Client) FetchRoster(ctx context.Context) (Roster, error) {
	target, err := url.Parse(client.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	query := target.Query()
	query.Set("KEY", client.key)
	target.RawQuery = query.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := client.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, response.StatusCode)
	}

	var envelope rosterEnvelope
	if err := json.NewDecoder(io.LimitReader(response.Body, maxBodyBytes)).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: decode roster: %v", ErrUnavailable, err)
	}

	if envelope.Error {
		return nil, &APIError{Message: envelope.Message}
	}

	return envelope.Data, nil
}

// Verify returns the roster record whose code and reference password both
// equal the input.
func (client *Client) Verify(ctx context.Context, userCode, password string) (*Person, error) {
	roster, err := client.FetchRoster(ctx)
	if err != nil {
		return nil, err
	}

	if person := match(roster, userCode, password); person != nil {
		return person, nil
	}
	return nil, ErrInvalidCredentials
}

// match scans the whole roster so the time taken does not depend on where,
// or whether, the code appears.
func match(roster Roster, userCode, password string) *Person {
	var found *Person
	for index := range roster {
		person := &roster[index]
		codeMatches := subtle.ConstantTimeCompare([]byte(person.UserCode), []byte(userCode))
		passwordMatches := subtle.ConstantTimeCompare([]byte(person.password), []byte(password))
		if codeMatches&passwordMatches == 1 && found == nil && userCode != "" && password != "" {
			found = person
		}
	}
	return found
}
