// Hackdaybot - Hack Day Project Roster Bot for Reddit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hackdaybot

package roster

import (
	"fmt"
	"sort"
	"strings"
)

// interestedMarker prefixes roster bullets for the interested set. Any other
// bullet belongs to the assignee set.
const interestedMarker = "[interested]"

// ParseError reports a structurally invalid line in the wiki page. Malformed
// pages fail loudly instead of silently dropping roster data.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("roster page line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// parsePage decodes the wiki page's markdown into projects keyed by link URL.
//
// The format is line-oriented: a heading "# [Title](URL)" opens a project and
// every following bullet belongs to it until the next heading. Bullets name a
// member as the text after the last "/" ("* /u/alice"); bullets opening with
// the interested marker land in the interested set. Blank lines and leading/
// trailing whitespace are tolerated; anything else unrecognized is ignored.
func parsePage(content string) (map[string]*Project, error) {
	projects := make(map[string]*Project)
	var current *Project

	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			continue

		case strings.HasPrefix(line, "#"):
			title, url, err := parseHeading(line)
			if err != nil {
				return nil, &ParseError{Line: i + 1, Text: line, Reason: err.Error()}
			}
			p, ok := projects[url]
			if !ok {
				p = newProject(title, url)
				projects[url] = p
			}
			current = p

		case strings.HasPrefix(line, "*"):
			if current == nil {
				return nil, &ParseError{Line: i + 1, Text: line, Reason: "roster line before any project heading"}
			}
			body := strings.TrimSpace(strings.TrimPrefix(line, "*"))
			set := current.Assignees
			if rest, ok := strings.CutPrefix(body, interestedMarker); ok {
				body = strings.TrimSpace(rest)
				set = current.Interested
			}
			slash := strings.LastIndex(body, "/")
			if slash < 0 || slash == len(body)-1 {
				return nil, &ParseError{Line: i + 1, Text: line, Reason: "roster line has no username"}
			}
			set[body[slash+1:]] = struct{}{}
		}
	}
	return projects, nil
}

// parseHeading extracts title and URL from "# [Title](URL)".
func parseHeading(line string) (title, url string, err error) {
	rest := strings.TrimSpace(strings.TrimLeft(line, "#"))
	if !strings.HasPrefix(rest, "[") || !strings.HasSuffix(rest, ")") {
		return "", "", fmt.Errorf("heading is not a [title](url) link")
	}
	sep := strings.LastIndex(rest, "](")
	if sep < 0 {
		return "", "", fmt.Errorf("heading is not a [title](url) link")
	}
	title = rest[1:sep]
	url = rest[sep+2 : len(rest)-1]
	if url == "" {
		return "", "", fmt.Errorf("heading has an empty url")
	}
	return title, url, nil
}

// renderPage encodes projects back to the canonical page content.
//
// Output is deterministic: projects sorted by title (URL as tiebreaker),
// members sorted lexicographically, assignees before interested. Projects
// with both rosters empty are omitted entirely, so render→parse→render is
// byte-stable.
func renderPage(projects map[string]*Project) string {
	ordered := make([]*Project, 0, len(projects))
	for _, p := range projects {
		if !p.empty() {
			ordered = append(ordered, p)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Title != ordered[j].Title {
			return ordered[i].Title < ordered[j].Title
		}
		return ordered[i].URL < ordered[j].URL
	})

	var lines []string
	for _, p := range ordered {
		lines = append(lines, fmt.Sprintf("# [%s](%s)", p.Title, p.URL))
		for _, member := range sortedMembers(p.Assignees) {
			lines = append(lines, "* /u/"+member)
		}
		for _, member := range sortedMembers(p.Interested) {
			lines = append(lines, "* "+interestedMarker+" /u/"+member)
		}
	}
	return strings.Join(lines, "\n")
}

func sortedMembers(set map[string]struct{}) []string {
	members := make([]string, 0, len(set))
	for m := range set {
		members = append(members, m)
	}
	sort.Strings(members)
	return members
}
