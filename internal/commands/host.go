package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/chr1sbest/ironrun/internal/logger"
)

// maxLineSize bounds a single request line.
const maxLineSize = 1 << 20

// Request is one line read by the host.
type Request struct {
	ID   json.RawMessage `json:"id,omitempty"`
	Cmd  string          `json:"cmd"`
	Args json.RawMessage `json:"args,omitempty"`
}

// Response is one line written by the host. Exactly one of Result and Error
// is set.
type Response struct {
	ID     json.RawMessage `json:"id"`
	OK     bool            `json:"ok"`
	Result any             `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Host serves a Registry over a line-delimited JSON stream.
type Host struct {
	registry *Registry
	log      logger.Logger
}

func NewHost(r *Registry, log logger.Logger) *Host {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &Host{registry: r, log: log}
}

// Serve reads requests from in and writes one response per request to out.
// It returns nil at EOF and ctx.Err() when ctx is cancelled first.
func (h *Host) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)

	// The reader may stay blocked in Read after ctx is cancelled; it exits on
	// the next line or when in is closed.
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-stop:
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	enc := json.NewEncoder(out)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					return fmt.Errorf("read request: %w", err)
				}
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			if err := enc.Encode(h.Handle(ctx, []byte(line))); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
		}
	}
}

// Handle decodes and executes a single request line.
func (h *Host) Handle(ctx context.Context, line []byte) Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		h.log.Warn("malformed request", logger.F("error", err.Error()))
		return Response{Error: fmt.Sprintf("malformed request: %v", err)}
	}

	resp := Response{ID: req.ID}
	result, err := h.registry.Dispatch(ctx, req.Cmd, req.Args)
	if err != nil {
		h.log.Warn("command failed", logger.F("cmd", req.Cmd), logger.F("error", err.Error()))
		resp.Error = err.Error()
		return resp
	}

	h.log.Debug("command handled", logger.F("cmd", req.Cmd))
	resp.OK = true
	resp.Result = result
	return resp
}
