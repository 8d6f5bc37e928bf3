package calendarclient

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/lfl-lab/dutybot/internal/config"
	"github.com/lfl-lab/dutybot/pkg/utils"
)

// Client wraps the Google Calendar API client
type Client struct {
	service    *calendar.Service
	ctx        context.Context
	calendarID string
	location   *time.Location
}

// NewClient creates a new Calendar client using an existing OAuth token
// The token should already contain all necessary scopes (gmail, calendar)
func NewClient(ctx context.Context, oauthCfg *config.OAuthClientConfig, token *oauth2.Token, timezone string) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	httpClient := oauthConfig.Client(ctx, token)

	service, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	return &Client{
		service:    service,
		ctx:        ctx,
		calendarID: "primary",
		location:   location,
	}, nil
}
