package stressmcp

import (
	"context"
	"os"
	"time"

	"github.com/xaliphostes/stress/internal/logging"
)

// WatchParent monitors for parent process death in a background goroutine
// and cancels the server context when the parent PID changes. This prevents
// zombie MCP server processes from accumulating when the client dies without
// closing the transport.
//
// It must NOT read from stdin: the SDK's StdioTransport owns stdin
// exclusively, and stealing bytes here would corrupt the JSON-RPC stream.
func WatchParent(ctx context.Context, cancel context.CancelFunc) {
	ppid := os.Getppid()
	log := logging.New("stress-mcp")
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(2 * time.Second):
				if os.Getppid() != ppid {
					log.Warn("parent process died, shutting down", "was_pid", ppid)
					cancel()
					return
				}
			}
		}
	}()
}
