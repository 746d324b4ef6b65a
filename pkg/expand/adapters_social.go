package expand

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/osintdash/graphkit/pkg/graph"
)

// PlatformProbe checks one social platform for a username. It is meant to
// run inside a ConcurrentSet: all platforms are probed at once and whichever
// respond are merged.
type PlatformProbe struct {
	Platform    string
	URLTemplate string // fmt template with one %s for the username
	ProfileURL  string // fmt template for the human-facing profile link
	Client      *http.Client
}

func (p *PlatformProbe) Name() string { return "social-" + p.Platform }

func (p *PlatformProbe) Expand(ctx context.Context, value string) ([]Fact, error) {
	username := usernameFrom(value)
	if username == "" {
		return nil, nil
	}

	var body map[string]any
	err := getJSON(ctx, p.Client, fmt.Sprintf(p.URLTemplate, username), &body)
	if err != nil {
		// 404 means the username is free on this platform: no fact,
		// no failure.
		if strings.Contains(err.Error(), "status 404") {
			return nil, nil
		}
		return nil, err
	}
	if len(body) == 0 {
		return nil, nil
	}

	profile := fmt.Sprintf(p.ProfileURL, username)
	return []Fact{{
		Type:  graph.EntitySocialProfile,
		Value: profile,
		Label: fmt.Sprintf("%s: %s", p.Platform, username),
		Properties: map[string]string{
			"platform": p.Platform,
			"username": username,
			"url":      profile,
		},
	}}, nil
}

// usernameFrom derives a probe-able username: the local part of an email,
// or a person name squashed to one token.
func usernameFrom(value string) string {
	if at := strings.Index(value, "@"); at > 0 {
		value = value[:at]
	}
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.ReplaceAll(value, " ", "")
	value = strings.Trim(value, ".-_")
	if len(value) < 2 {
		return ""
	}
	return value
}

// SocialPlatforms returns the standard concurrent probe set.
func SocialPlatforms(client *http.Client) []Provider {
	return []Provider{
		&PlatformProbe{
			Platform:    "github",
			URLTemplate: "https://api.github.com/users/%s",
			ProfileURL:  "https://github.com/%s",
			Client:      client,
		},
		&PlatformProbe{
			Platform:    "reddit",
			URLTemplate: "https://www.reddit.com/user/%s/about.json",
			ProfileURL:  "https://www.reddit.com/user/%s",
			Client:      client,
		},
		&PlatformProbe{
			Platform:    "hackernews",
			URLTemplate: "https://hacker-news.firebaseio.com/v0/user/%s.json",
			ProfileURL:  "https://news.ycombinator.com/user?id=%s",
			Client:      client,
		},
		&PlatformProbe{
			Platform:    "keybase",
			URLTemplate: "https://keybase.io/_/api/1.0/user/lookup.json?usernames=%s",
			ProfileURL:  "https://keybase.io/%s",
			Client:      client,
		},
	}
}
