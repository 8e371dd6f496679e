package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bastiangx/wordscape/internal/logger"
	"github.com/bastiangx/wordscape/pkg/search"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// IPCServer answers msgpack search requests read from r on w.
type IPCServer struct {
	engine *search.Engine
	dec    *msgpack.Decoder
	enc    *msgpack.Encoder
	logger *log.Logger
}

// NewIPCServer creates an IPC server; cmd wires it to stdin and stdout.
func NewIPCServer(engine *search.Engine, r io.Reader, w io.Writer) *IPCServer {
	return &IPCServer{
		engine: engine,
		dec:    msgpack.NewDecoder(r),
		enc:    msgpack.NewEncoder(w),
		logger: logger.New("ipc"),
	}
}

// Serve signals readiness and then handles requests until the input ends.
// Requests are processed one at a time, in order.
func (s *IPCServer) Serve(ctx context.Context) error {
	s.logger.Debug("Starting IPC server")
	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		// Read one whole value first so a malformed request does not
		// desynchronise the stream.
		raw, err := s.dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("Input closed, stopping")
				return nil
			}
			return fmt.Errorf("failed to read request: %w", err)
		}

		var req IPCRequest
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.logger.Errorf("Unmarshaling request: %v", err)
			if err := s.sendError("", "invalid request", http.StatusBadRequest); err != nil {
				return err
			}
			continue
		}
		if err := s.handle(ctx, req); err != nil {
			return err
		}
	}
}

func (s *IPCServer) handle(ctx context.Context, req IPCRequest) error {
	switch req.Action {
	case "", ActionSearch:
		return s.handleSearch(ctx, req)
	case ActionStats:
		return s.send(StatsResponse{ID: req.ID, Stats: s.engine.Stats()})
	case ActionPing:
		return s.send(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		return s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), http.StatusBadRequest)
	}
}

func (s *IPCServer) handleSearch(ctx context.Context, req IPCRequest) error {
	start := time.Now()
	res, err := s.engine.FindLimit(ctx, req.Letters, req.Template, req.Limit)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, search.ErrInvalidQuery) {
			code = http.StatusBadRequest
		}
		s.logger.Debugf("Request %s failed: %v", req.ID, err)
		return s.sendError(req.ID, err.Error(), code)
	}

	return s.send(SearchResponse{
		ID:        req.ID,
		Words:     res.Words,
		Count:     len(res.Words),
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *IPCServer) send(v any) error {
	if err := s.enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

func (s *IPCServer) sendError(id, message string, code int) error {
	return s.send(IPCError{ID: id, Error: message, Code: code})
}
