// Hackdaybot - Hack Day Project Roster Bot for Reddit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hackdaybot

package reddit

import (
	"context"
	"net/url"
	"strconv"

	"github.com/tomtom215/hackdaybot/internal/platform"
)

// listing is the slice of Reddit's Listing envelope the stream needs.
type listing struct {
	Data struct {
		Children []struct {
			Kind string      `json:"kind"`
			Data commentData `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type commentData struct {
	// Name is the fullname ("t1_..."), the bot's comment identifier.
	Name      string `json:"name"`
	Author    string `json:"author"`
	Body      string `json:"body"`
	LinkID    string `json:"link_id"`
	LinkTitle string `json:"link_title"`
	LinkURL   string `json:"link_url"`
}

// fetchComments retrieves the newest comments on the subreddit, newest
// first, up to the configured poll limit.
func (c *Client) fetchComments(ctx context.Context) ([]*platform.Comment, error) {
	query := url.Values{"limit": {strconv.Itoa(c.cfg.PollLimit)}}
	var l listing
	if err := c.get(ctx, "/r/"+c.cfg.Subreddit+"/comments", query, &l); err != nil {
		return nil, err
	}

	comments := make([]*platform.Comment, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		if child.Kind != "t1" {
			continue
		}
		d := child.Data
		comments = append(comments, &platform.Comment{
			ID:        d.Name,
			Author:    d.Author,
			Body:      d.Body,
			LinkID:    d.LinkID,
			LinkTitle: d.LinkTitle,
			LinkURL:   d.LinkURL,
		})
	}
	return comments, nil
}
