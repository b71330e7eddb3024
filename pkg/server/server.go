// Package server exposes the agent over HTTP: POST /api/chat streams the
// run back as server-sent events.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ponikar/healthy-ai/pkg/chat"
	"github.com/ponikar/healthy-ai/pkg/events"
	"github.com/ponikar/healthy-ai/pkg/graph"
	"github.com/ponikar/healthy-ai/pkg/stream"
)

// GraphRunner is the execution side the transport consumes.
type GraphRunner interface {
	Stream(ctx context.Context, initial *chat.State) <-chan graph.Step
}

const DefaultRequestTimeout = 120 * time.Second

type Server struct {
	runner  GraphRunner
	timeout time.Duration
}

type Option func(*Server)

// WithRequestTimeout bounds the wall clock of one chat request, covering
// every node execution and retry within it.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.timeout = d
	}
}

func New(runner GraphRunner, options ...Option) *Server {
	s := &Server{
		runner:  runner,
		timeout: DefaultRequestTimeout,
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", s.handleChat)
	return mux
}

// ListenAndServe runs the HTTP server until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info().Str("addr", addr).Msg("listening")
		err := httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}

type chatRequest struct {
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// parse validates the request body before any execution starts.
func (r *chatRequest) parse() (*chat.State, error) {
	if len(r.Messages) == 0 {
		return nil, errors.New("messages must not be empty")
	}
	msgs := make([]chat.Message, 0, len(r.Messages))
	for i, m := range r.Messages {
		switch m.Role {
		case string(chat.RoleUser):
			msgs = append(msgs, chat.NewUserMessage(m.Content))
		case string(chat.RoleAssistant):
			msgs = append(msgs, chat.NewAssistantMessage(m.Content))
		default:
			return nil, errors.Errorf("message %d has invalid role %q", i, m.Role)
		}
	}
	return chat.NewState(msgs...), nil
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	initial, err := req.parse()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	if err := s.streamRun(ctx, w, flusher, initial); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("chat stream failed")
	}
}

// streamRun wires one request: a private event router topic, an SSE-writing
// subscriber, and the execution loop publishing translated steps. Publishing
// blocks until the frame is written, so events reach the client in step
// order.
func (s *Server) streamRun(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, initial *chat.State) error {
	router, err := events.NewEventRouter(events.WithZerologLogger())
	if err != nil {
		return errors.Wrap(err, "create event router")
	}

	requestID := uuid.NewString()
	topic := "chat-" + requestID

	router.AddHandler("sse-"+requestID, topic, func(msg *message.Message) error {
		if _, err := fmt.Fprintf(w, "data: %s\n\n", msg.Payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return router.Run(ctx)
	})
	eg.Go(func() error {
		select {
		case <-router.Running():
		case <-ctx.Done():
			return ctx.Err()
		}

		sink := router.Sink(topic)
		for step := range s.runner.Stream(ctx, initial) {
			for _, ev := range stream.Translate(step) {
				if err := sink.PublishEvent(ev); err != nil {
					return err
				}
			}
		}
		return router.Close()
	})

	err = eg.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
