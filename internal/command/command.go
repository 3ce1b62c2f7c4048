// Hackdaybot - Hack Day Project Roster Bot for Reddit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hackdaybot

// Package command parses bot commands out of free-form comment text.
//
// A command is a whole token of the form "!name" bounded by whitespace or
// the start/end of the text. The vocabulary is closed: help, interested,
// join, leave, uninterested. Matching is case-sensitive and command-like
// substrings inside larger words ("say!join", "!joining") never match.
package command

import (
	"sort"
	"strings"
)

// Command identifies one of the recognized bot commands.
type Command int

const (
	// Help requests the command reference table.
	Help Command = iota
	// Interested records interest in a project without joining it.
	Interested
	// Join adds the commenter to a project's assignee roster.
	Join
	// Leave removes the commenter from a project's assignee roster.
	Leave
	// Uninterested withdraws previously recorded interest.
	Uninterested

	numCommands
)

// Sigil prefixes every command token.
const Sigil = "!"

// descriptions drive both token recognition and the !help table.
var descriptions = map[Command]string{
	Help:         "Output this help message.",
	Interested:   "Indicate interest in the project.",
	Join:         "Indicate intent to join the project.",
	Leave:        "Leave the project.",
	Uninterested: "Remove your interest in the project.",
}

var names = map[Command]string{
	Help:         "help",
	Interested:   "interested",
	Join:         "join",
	Leave:        "leave",
	Uninterested: "uninterested",
}

var byName = func() map[string]Command {
	m := make(map[string]Command, len(names))
	for c, n := range names {
		m[n] = c
	}
	return m
}()

// String returns the bare command keyword without the sigil.
func (c Command) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return "unknown"
}

// Description returns the human-readable description used by the help table.
func (c Command) Description() string {
	return descriptions[c]
}

// All returns every recognized command in declaration order.
func All() []Command {
	all := make([]Command, 0, numCommands)
	for c := Command(0); c < numCommands; c++ {
		all = append(all, c)
	}
	return all
}

// Parse extracts the distinct recognized commands from text.
//
// Tokens are split on whitespace, so boundary rules come for free: a token
// matches only when it is exactly Sigil followed by a vocabulary word.
// Duplicates collapse; unknown "!word" tokens are ignored. The result is
// sorted in declaration order for determinism.
func Parse(text string) []Command {
	var found []Command
	seen := make(map[Command]bool, 2)
	for _, tok := range strings.Fields(text) {
		rest, ok := strings.CutPrefix(tok, Sigil)
		if !ok {
			continue
		}
		c, ok := byName[rest]
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		found = append(found, c)
	}
	sort.Slice(found, func(i, j int) bool { return found[i] < found[j] })
	return found
}

// HelpTable renders the markdown table posted in response to !help.
// Rows are sorted by command name, matching the serialized roster's
// everything-is-sorted convention.
func HelpTable() string {
	rows := []string{"command|description", ":---|:---"}
	for _, c := range All() {
		rows = append(rows, Sigil+c.String()+"|"+c.Description())
	}
	sort.Strings(rows[2:])
	return strings.Join(rows, "\n")
}
