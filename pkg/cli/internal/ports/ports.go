// Package ports provides port availability checking.
package ports

import (
	"fmt"
	"net"
	"strconv"
)

// IsAvailable checks if a port is available for binding on host.
func IsAvailable(host string, port int) bool {
	return Check(host, port) == nil
}

// Check returns an error when port cannot be bound on host. Port 0 always
// succeeds.
func Check(host string, port int) error {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is not available: %w", port, err)
	}
	_ = ln.Close()
	return nil
}
