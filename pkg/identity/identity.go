package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/aureeture/aureeture-api/pkg/circuitbreaker"
	"github.com/aureeture/aureeture-api/pkg/httpclient"
	"github.com/aureeture/aureeture-api/pkg/logger"
)

var (
	ErrUserNotFound = errors.New("identity user not found")
	ErrUnavailable  = errors.New("identity provider unavailable")
)

// User is the subset of the identity provider's user record we care about.
type User struct {
	ID                    string         `json:"id"`
	FirstName             string         `json:"first_name"`
	LastName              string         `json:"last_name"`
	ImageURL              string         `json:"image_url"`
	PrimaryEmailAddressID string         `json:"primary_email_address_id"`
	EmailAddresses        []EmailAddress `json:"email_addresses"`
}

// EmailAddress is one entry of the provider's email_addresses array.
type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// PrimaryEmail returns the user's primary email address, falling back to
// the first listed address when the primary id does not resolve.
func (u *User) PrimaryEmail() string {
	for _, e := range u.EmailAddresses {
		if e.ID == u.PrimaryEmailAddressID {
			return e.EmailAddress
		}
	}
	if len(u.EmailAddresses) > 0 {
		return u.EmailAddresses[0].EmailAddress
	}
	return ""
}

// FullName joins first and last name, either of which may be empty.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.LastName
	}
}

// Client fetches user records from the identity provider's backend API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpclient.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates an identity API client
func NewClient(baseURL, apiKey string, httpClient httpclient.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		breaker:    circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("identity")),
	}
}

// GetUser fetches a user record by provider user id
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	start := time.Now()

	user, err := circuitbreaker.Execute(c.breaker, func() (*User, error) {
		return c.fetchUser(ctx, userID)
	})

	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	logger.LogAPICall(ctx, "identity", "get_user", status, duration)

	return user, err
}

func (c *Client) fetchUser(ctx context.Context, userID string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/v1/users/%s", c.baseURL, userID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrUserNotFound
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("identity API returned %d: %s", resp.StatusCode, string(body))
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode identity response: %w", err)
	}
	return &user, nil
}
