package asterisk

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// Reload targets understood by the client. Each maps to the switch
// command that reloads the matching configuration file.
const (
	TargetRouting   = "routing"
	TargetEndpoints = "endpoints"
)

// FailureKind classifies why a reload did not succeed. Callers branch
// on the kind, not on error strings.
type FailureKind string

const (
	FailureNone             FailureKind = ""
	FailureEndpointNotFound FailureKind = "endpoint_not_found"
	FailurePermissionDenied FailureKind = "permission_denied"
	FailureTimeout          FailureKind = "timeout"
	FailureRejected         FailureKind = "rejected"
)

// ReloadResult reports the outcome of a single reload command.
type ReloadResult struct {
	Target     string
	Success    bool
	Kind       FailureKind
	Diagnostic string
}

// ReloadClient tells the switch to pick up newly published
// configuration files.
type ReloadClient interface {
	Reload(ctx context.Context, target string) ReloadResult
}

// AMIClient implements ReloadClient over the Asterisk Manager
// Interface. Every call opens a fresh connection, authenticates, runs
// one command, and disconnects; reloads are rare enough that pooling
// buys nothing.
type AMIClient struct {
	addr     string
	username string
	secret   string
	timeout  time.Duration
	logger   logger.Interface
}

func NewAMIClient(addr, username, secret string, timeout time.Duration, logger logger.Interface) *AMIClient {
	return &AMIClient{
		addr:     addr,
		username: username,
		secret:   secret,
		timeout:  timeout,
		logger:   logger,
	}
}

func commandFor(target string) (string, error) {
	switch target {
	case TargetRouting:
		return "dialplan reload", nil
	case TargetEndpoints:
		return "module reload res_pjsip.so", nil
	default:
		return "", fmt.Errorf("unknown reload target %q", target)
	}
}

func (c *AMIClient) Reload(ctx context.Context, target string) ReloadResult {
	command, err := commandFor(target)
	if err != nil {
		return ReloadResult{Target: target, Kind: FailureRejected, Diagnostic: err.Error()}
	}

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	dialer := net.Dialer{Deadline: deadline}
	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return c.failure(target, classifyNetError(err), fmt.Sprintf("failed to connect to %s: %v", c.addr, err))
	}
	defer conn.Close()

	if err := conn.SetDeadline(deadline); err != nil {
		return c.failure(target, FailureEndpointNotFound, fmt.Sprintf("failed to set deadline: %v", err))
	}

	reader := bufio.NewReader(conn)

	// The switch announces itself with a banner line before accepting
	// actions.
	if _, err := reader.ReadString('\n'); err != nil {
		return c.failure(target, classifyNetError(err), fmt.Sprintf("failed to read banner: %v", err))
	}

	login := fmt.Sprintf("Action: Login\r\nUsername: %s\r\nSecret: %s\r\n\r\n", c.username, c.secret)
	if _, err := conn.Write([]byte(login)); err != nil {
		return c.failure(target, classifyNetError(err), fmt.Sprintf("failed to send login: %v", err))
	}

	resp, err := readResponse(reader)
	if err != nil {
		return c.failure(target, classifyNetError(err), fmt.Sprintf("failed to read login response: %v", err))
	}
	if resp["Response"] != "Success" {
		return c.failure(target, FailurePermissionDenied,
			fmt.Sprintf("authentication rejected: %s", resp["Message"]))
	}

	action := fmt.Sprintf("Action: Command\r\nCommand: %s\r\n\r\n", command)
	if _, err := conn.Write([]byte(action)); err != nil {
		return c.failure(target, classifyNetError(err), fmt.Sprintf("failed to send command: %v", err))
	}

	resp, err = readResponse(reader)
	if err != nil {
		return c.failure(target, classifyNetError(err), fmt.Sprintf("failed to read command response: %v", err))
	}
	if resp["Response"] == "Error" {
		return c.failure(target, FailureRejected,
			fmt.Sprintf("command %q rejected: %s", command, resp["Message"]))
	}

	// Best effort; the command already succeeded.
	conn.Write([]byte("Action: Logoff\r\n\r\n"))

	c.logger.Infow("switch reload succeeded", "target", target, "command", command)
	return ReloadResult{Target: target, Success: true}
}

func (c *AMIClient) failure(target string, kind FailureKind, diagnostic string) ReloadResult {
	c.logger.Errorw("switch reload failed", "target", target, "kind", string(kind), "diagnostic", diagnostic)
	return ReloadResult{Target: target, Kind: kind, Diagnostic: diagnostic}
}

// readResponse reads one AMI response block, a sequence of "Key: Value"
// lines terminated by a blank line.
func readResponse(reader *bufio.Reader) (map[string]string, error) {
	resp := make(map[string]string)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return resp, nil
		}
		if key, value, found := strings.Cut(line, ": "); found {
			resp[key] = value
		}
	}
}

func classifyNetError(err error) FailureKind {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}
	return FailureEndpointNotFound
}
