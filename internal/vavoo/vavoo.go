// Package vavoo pulls the Italian channel catalog from the vavoo mediahub
// API and renders it as an M3U playlist, optionally merged with the
// provider's 24/7 channel lineup.
package vavoo

import (
	"context"
	"fmt"
	"net/http"

	"github.com/listatv/listatv/internal/fetch"
	"github.com/listatv/listatv/internal/httpclient"
)

const (
	defaultSignatureURL = "https://vavoo.to/mediahubmx-signature.json"
	defaultCatalogURL   = "https://vavoo.to/mediahubmx-catalog.json"
	userAgent           = "okhttp/4.11.0"
	// The API accepts this fixed app token for anonymous signature requests.
	appToken      = "tosFwQCJMS8qrW_AjLoHPQ41646J5dRNha6ZWHnijoYQQQoADQoXYSo7ki7O5-CsgN4CH0uRk6EEoJ0728ar9scCRQW3ZkbfrPfeCXW2VgopSW2FWDqPOoVYIuVPAOnXCZ5g"
	clientVersion = "3.0.2"
)

// Item is one catalog channel.
type Item struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Group string `json:"group"`
}

// Client fetches the mediahub catalog.
type Client struct {
	HTTPClient *http.Client
	// Groups are the catalog groups to pull. Empty means Italy only.
	Groups []string

	SignatureURL string
	CatalogURL   string
}

func NewClient() *Client {
	return &Client{
		HTTPClient:   httpclient.Default(),
		Groups:       []string{"Italy"},
		SignatureURL: defaultSignatureURL,
		CatalogURL:   defaultCatalogURL,
	}
}

// Signature obtains the per-session API signature required by the catalog
// endpoint.
func (c *Client) Signature(ctx context.Context) (string, error) {
	payload := map[string]interface{}{
		"token":  appToken,
		"reason": "app-blur",
		"locale": "de",
		"theme":  "dark",
		"metadata": map[string]interface{}{
			"device": map[string]string{
				"type":      "Handset",
				"os":        "Android",
				"osVersion": "10",
				"model":     "Pixel 4",
				"brand":     "Google",
			},
		},
	}
	headers := map[string]string{
		"user-agent": userAgent,
		"accept":     "application/json",
	}
	var out struct {
		Signature string `json:"signature"`
	}
	if err := fetch.PostJSON(ctx, c.HTTPClient, c.SignatureURL, payload, headers, &out); err != nil {
		return "", fmt.Errorf("vavoo signature: %w", err)
	}
	if out.Signature == "" {
		return "", fmt.Errorf("vavoo signature: empty response")
	}
	return out.Signature, nil
}

// Channels pages through the catalog for every configured group.
func (c *Client) Channels(ctx context.Context) ([]Item, error) {
	signature, err := c.Signature(ctx)
	if err != nil {
		return nil, err
	}
	headers := map[string]string{
		"user-agent":           userAgent,
		"accept":               "application/json",
		"mediahubmx-signature": signature,
	}
	groups := c.Groups
	if len(groups) == 0 {
		groups = []string{"Italy"}
	}

	var all []Item
	for _, group := range groups {
		cursor := 0
		for {
			payload := map[string]interface{}{
				"language":      "de",
				"region":        "AT",
				"catalogId":     "iptv",
				"id":            "iptv",
				"adult":         false,
				"search":        "",
				"sort":          "name",
				"filter":        map[string]string{"group": group},
				"cursor":        cursor,
				"clientVersion": clientVersion,
			}
			var out struct {
				Items      []Item `json:"items"`
				NextCursor int    `json:"nextCursor"`
			}
			if err := fetch.PostJSON(ctx, c.HTTPClient, c.CatalogURL, payload, headers, &out); err != nil {
				return nil, fmt.Errorf("vavoo catalog %s: %w", group, err)
			}
			all = append(all, out.Items...)
			if out.NextCursor == 0 {
				break
			}
			cursor = out.NextCursor
		}
	}
	return all, nil
}
