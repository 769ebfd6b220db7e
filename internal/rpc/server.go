package rpc

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/dariafung/fotex/internal/logging"
)

const (
	jsonRPCVersion = "2.0"
	rpcErrorCode   = -32000
	maxMessageSize = 10 * 1024 * 1024

	// CancelMethod cancels the context of an in-flight request by id.
	CancelMethod = "CancelRequest"
)

type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	APIVer  string          `json:"api_version,omitempty"`
}

type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *ErrorPayload   `json:"error,omitempty"`
}

type Notification struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type Handler func(ctx context.Context, params json.RawMessage) (any, *Error)

type Error struct {
	Message string
	Data    any
}

// Server speaks newline-delimited JSON-RPC 2.0. Each request runs in its own
// goroutine with a context that CancelRequest can cancel.
type Server struct {
	apiVersion string
	reader     *bufio.Reader
	writer     *bufio.Writer
	mu         sync.Mutex
	router     *Router
	logger     *slog.Logger

	inflightMu sync.Mutex
	inflight   map[string]context.CancelFunc
	wg         sync.WaitGroup
}

func NewServer(apiVersion string, r io.Reader, w io.Writer, router *Router, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	if router == nil {
		router = NewRouter()
	}
	s := &Server{
		apiVersion: apiVersion,
		reader:     bufio.NewReader(r),
		writer:     bufio.NewWriter(w),
		router:     router,
		logger:     logger,
		inflight:   make(map[string]context.CancelFunc),
	}
	return s
}

func (s *Server) Register(method string, handler Handler) {
	s.router.Register(method, handler)
}

// Serve reads requests until EOF or a read error, then waits for in-flight
// handlers to write their responses.
func (s *Server) Serve(ctx context.Context) error {
	defer s.wg.Wait()
	for {
		line, err := s.reader.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.logger.Error("rpc.read_failed", "error", err.Error())
			return err
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if len(line) > maxMessageSize {
			s.logger.Warn("rpc.message_too_large", "bytes", len(line))
			s.sendError(nil, "message too large", nil)
			continue
		}
		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("rpc.invalid_json", "error", err.Error())
			s.sendError(nil, "invalid json", nil)
			continue
		}
		if req.JSONRPC != jsonRPCVersion {
			s.logger.Warn("rpc.invalid_version", "version", req.JSONRPC)
			s.sendError(req.ID, "invalid jsonrpc version", nil)
			continue
		}
		if req.APIVer != "" && req.APIVer != s.apiVersion {
			s.logger.Warn("rpc.incompatible_version", "requested", req.APIVer, "expected", s.apiVersion)
			s.sendError(req.ID, "incompatible api_version", map[string]string{"expected": s.apiVersion})
			continue
		}
		if req.Method == CancelMethod {
			s.handleCancel(req)
			continue
		}
		handler, ok := s.router.Lookup(req.Method)
		if !ok {
			s.logger.Warn("rpc.method_not_found", "method", req.Method)
			s.sendError(req.ID, "method not found: "+req.Method, nil)
			continue
		}
		s.logger.Debug("rpc.request", "method", req.Method, "id", string(req.ID), "params", logging.RedactJSON(req.Params))
		key := idKey(req.ID)
		reqCtx, cancel := context.WithCancel(ctx)
		if key != "" && !s.track(key, cancel) {
			cancel()
			s.logger.Warn("rpc.duplicate_id", "method", req.Method, "id", string(req.ID))
			s.sendError(req.ID, "duplicate request id: "+string(req.ID), nil)
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() {
				if key != "" {
					s.inflightMu.Lock()
					delete(s.inflight, key)
					s.inflightMu.Unlock()
				}
				cancel()
			}()
			s.handleRequest(reqCtx, req, handler)
		}()
	}
}

// track registers cancel for an in-flight id. An id already in flight is
// refused so each cancel func is removed only by the request that added it.
func (s *Server) track(key string, cancel context.CancelFunc) bool {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	if _, busy := s.inflight[key]; busy {
		return false
	}
	s.inflight[key] = cancel
	return true
}

func (s *Server) handleRequest(ctx context.Context, req Request, handler Handler) {
	result, err := handler(ctx, req.Params)
	if req.ID == nil {
		return
	}
	if err != nil {
		s.logger.Error("rpc.response_error", "method", req.Method, "id", string(req.ID), "error", logging.RedactAny(err.Data))
		s.sendError(req.ID, err.Message, err.Data)
		return
	}
	s.logger.Debug("rpc.response", "method", req.Method, "id", string(req.ID), "result", logging.RedactAny(result))
	s.send(Response{JSONRPC: jsonRPCVersion, ID: req.ID, Result: result})
}

type cancelParams struct {
	ID json.RawMessage `json:"id"`
}

func (s *Server) handleCancel(req Request) {
	var params cancelParams
	if err := json.Unmarshal(req.Params, &params); err != nil || idKey(params.ID) == "" {
		s.sendError(req.ID, "CancelRequest requires params.id", nil)
		return
	}
	s.inflightMu.Lock()
	cancel, found := s.inflight[idKey(params.ID)]
	s.inflightMu.Unlock()
	if found {
		cancel()
	}
	s.logger.Debug("rpc.cancel", "target", string(params.ID), "found", found)
	if req.ID != nil {
		s.send(Response{JSONRPC: jsonRPCVersion, ID: req.ID, Result: map[string]bool{"canceled": found}})
	}
}

// idKey compacts a JSON id for use as a map key; null and empty ids have none.
func idKey(id json.RawMessage) string {
	if len(id) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, id); err != nil {
		return string(id)
	}
	if buf.String() == "null" {
		return ""
	}
	return buf.String()
}

func (s *Server) Notify(method string, params any) {
	s.logger.Debug("rpc.notify", "method", method, "params", logging.RedactAny(params))
	s.send(Notification{JSONRPC: jsonRPCVersion, Method: method, Params: params})
}

func (s *Server) sendError(id json.RawMessage, message string, data any) {
	s.send(Response{
		JSONRPC: jsonRPCVersion,
		ID:      id,
		Error:   &ErrorPayload{Code: rpcErrorCode, Message: message, Data: data},
	})
}

func (s *Server) send(payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("rpc.marshal_failed", "error", err.Error())
		return
	}
	_, _ = s.writer.Write(append(data, '\n'))
	_ = s.writer.Flush()
}
