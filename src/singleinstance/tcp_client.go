package singleinstance

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

type tcpClient struct{}

func newTcpClient() Client { return &tcpClient{} }

func (c *tcpClient) Send(ctx context.Context, cmd Command) (bool, string, error) {
	deadline := 2 * time.Second
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			deadline = d
		}
	}
	// scan configured range for resident using PING then request
	start, end := getPortRange()
	for port := start; port <= end; port++ {
		if ctx.Err() != nil {
			return false, "", ctx.Err()
		}
		addr := net.JoinHostPort(residentHost, strconv.Itoa(port))
		if !ping(addr, deadline) {
			continue
		}
		return exchange(addr, cmd, deadline)
	}
	return false, "", nil
}

// exchange sends one command to a resident that already answered PING.
func exchange(addr string, cmd Command, deadline time.Duration) (bool, string, error) {
	conn, err := net.DialTimeout("tcp", addr, deadline)
	if err != nil {
		return true, "", err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(deadline))

	w := bufio.NewWriter(conn)
	if _, err := w.WriteString(string(cmd) + "\n"); err != nil {
		return true, "", err
	}
	if err := w.Flush(); err != nil {
		return true, "", err
	}
	br := bufio.NewReader(conn)
	status, err := br.ReadString('\n')
	if err != nil {
		return true, "", err
	}
	body, _ := io.ReadAll(br)
	switch status {
	case successStatus:
		return true, strings.TrimSpace(string(body)), nil
	case errorStatus:
		return true, "", errors.New(strings.TrimSpace(string(body)))
	}
	return true, "", errors.New("unexpected resident reply: " + strings.TrimSpace(status))
}
