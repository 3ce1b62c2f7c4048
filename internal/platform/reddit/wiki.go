// Hackdaybot - Hack Day Project Roster Bot for Reddit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hackdaybot

package reddit

import (
	"context"
	"net/url"
)

// wikiPage is the slice of Reddit's wikipage envelope the ledger needs.
type wikiPage struct {
	Data struct {
		ContentMD string `json:"content_md"`
	} `json:"data"`
}

// Read returns the page's markdown content. A page that has never been
// created yields platform.ErrNotFound (mapped from the API's 404).
func (c *Client) Read(ctx context.Context, page string) (string, error) {
	var p wikiPage
	if err := c.get(ctx, "/r/"+c.cfg.Subreddit+"/wiki/"+page, nil, &p); err != nil {
		return "", err
	}
	return p.Data.ContentMD, nil
}

// Create makes the page exist with the given content.
func (c *Client) Create(ctx context.Context, page, content string) error {
	return c.edit(ctx, page, content, "created by hackdaybot")
}

// Update overwrites the page's entire content; reason lands in the wiki
// revision history.
func (c *Client) Update(ctx context.Context, page, content, reason string) error {
	return c.edit(ctx, page, content, reason)
}

func (c *Client) edit(ctx context.Context, page, content, reason string) error {
	form := url.Values{
		"page":    {page},
		"content": {content},
		"reason":  {reason},
	}
	return c.post(ctx, "/r/"+c.cfg.Subreddit+"/api/wiki/edit", form, nil)
}
