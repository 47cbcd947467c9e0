package singleinstance

// This file defines the API for single-instance ownership and command delegation.

import (
	"context"
	"fmt"
	"strings"
)

// Command is one line of the delegation protocol.
type Command string

const (
	CmdToggle Command = "TOGGLE"
	CmdShow   Command = "SHOW"
	CmdHide   Command = "HIDE"
	CmdReload Command = "RELOAD"
	// CmdStatus asks the resident whether the guide is showing.
	CmdStatus Command = "STATUS"
)

// ParseCommand accepts a command name in any case.
func ParseCommand(s string) (Command, error) {
	c := Command(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case CmdToggle, CmdShow, CmdHide, CmdReload, CmdStatus:
		return c, nil
	}
	return "", fmt.Errorf("unknown command %q", s)
}

// Server owns the TCP endpoint and answers delegated commands.
type Server interface {
	// Start begins listening on the first port of the configured range.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next accepted connection as a Conn, or ctx error.
	Next(ctx context.Context) (Conn, error)
	// Close releases ownership and stops accepting clients.
	Close() error
}

// Conn represents one client connection and exposes request + response API.
type Conn interface {
	// Request returns the parsed client request.
	Request() Request
	// RespondSuccess sends success with an optional reply body.
	RespondSuccess(text string) error
	// RespondError sends an error with human-readable message.
	RespondError(msg string) error
	// Close closes the underlying connection.
	Close() error
}

// Request represents a single delegated command.
type Request struct {
	Command Command
}

// Client delegates commands to a resident server.
type Client interface {
	// Send scans the port range, performs the PING handshake and delivers cmd.
	// If no resident is found, returns delegated=false, err=nil.
	Send(ctx context.Context, cmd Command) (delegated bool, reply string, err error)
}

// NewServer returns TCP implementation.
func NewServer() Server { return newTcpServer() }

// NewClient returns TCP implementation.
func NewClient() Client { return newTcpClient() }
