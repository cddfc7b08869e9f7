package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nazmulcodes/deshcart-backend/pkg/enums"
	"github.com/nazmulcodes/deshcart-backend/pkg/logger"
)

var ErrUnsupportedEventType = errors.New("unsupported order event type")

// Handler receives an envelope plus a decoded event payload.
type Handler interface {
	Handle(ctx context.Context, envelope Envelope, payload any) error
}

type handlerEntry struct {
	factory func() any
	handler Handler
}

// Router dispatches order envelopes to the configured handler per event type.
type Router struct {
	handlers map[enums.OrderEventType]handlerEntry
	logg     *logger.Logger
}

// NewRouter wires the default handlers and allows overrides per event type.
func NewRouter(sink Sink, logg *logger.Logger, overrides map[enums.OrderEventType]Handler) (*Router, error) {
	if sink == nil {
		return nil, errors.New("sink is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}

	entries := map[enums.OrderEventType]handlerEntry{
		enums.OrderEventPlaced: {
			factory: func() any { return &OrderEvent{} },
			handler: newOrderPlacedHandler(sink, logg),
		},
		enums.OrderEventCanceled: {
			factory: func() any { return &OrderEvent{} },
			handler: newOrderCanceledHandler(sink, logg),
		},
	}

	for event, custom := range overrides {
		entry, ok := entries[event]
		if !ok || custom == nil {
			continue
		}
		entry.handler = custom
		entries[event] = entry
	}

	return &Router{
		handlers: entries,
		logg:     logg,
	}, nil
}

// Handle dispatches the incoming envelope to the configured handler.
func (r *Router) Handle(ctx context.Context, envelope Envelope) error {
	entry, ok := r.handlers[envelope.EventType]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedEventType, envelope.EventType)
	}
	if len(envelope.Payload) == 0 {
		return fmt.Errorf("empty payload for %s", envelope.EventType)
	}
	payload := entry.factory()
	if err := json.Unmarshal(envelope.Payload, payload); err != nil {
		return fmt.Errorf("decode %s payload: %w", envelope.EventType, err)
	}

	return entry.handler.Handle(ctx, envelope, payload)
}

type orderPlacedHandler struct {
	sink Sink
	logg *logger.Logger
}

func newOrderPlacedHandler(sink Sink, logg *logger.Logger) Handler {
	return &orderPlacedHandler{sink: sink, logg: logg}
}

func (h *orderPlacedHandler) Handle(ctx context.Context, envelope Envelope, payload any) error {
	event, ok := payload.(*OrderEvent)
	if !ok {
		return fmt.Errorf("invalid payload for order_placed")
	}

	logCtx := h.logg.WithFields(ctx, map[string]any{
		"event_type": envelope.EventType,
		"order_id":   event.OrderID,
		"division":   event.Division,
	})

	if err := h.sink.ApplyOrderPlaced(logCtx, *event, envelope.OccurredAt); err != nil {
		h.logg.Error(logCtx, "failed to fold order_placed into live bucket", err)
		return err
	}

	h.logg.Info(logCtx, "order_placed folded into live bucket")
	return nil
}

type orderCanceledHandler struct {
	sink Sink
	logg *logger.Logger
}

func newOrderCanceledHandler(sink Sink, logg *logger.Logger) Handler {
	return &orderCanceledHandler{sink: sink, logg: logg}
}

func (h *orderCanceledHandler) Handle(ctx context.Context, envelope Envelope, payload any) error {
	event, ok := payload.(*OrderEvent)
	if !ok {
		return fmt.Errorf("invalid payload for order_canceled")
	}

	logCtx := h.logg.WithFields(ctx, map[string]any{
		"event_type": envelope.EventType,
		"order_id":   event.OrderID,
		"division":   event.Division,
	})

	if err := h.sink.ApplyOrderCanceled(logCtx, *event, envelope.OccurredAt); err != nil {
		h.logg.Error(logCtx, "failed to fold order_canceled into live bucket", err)
		return err
	}

	h.logg.Info(logCtx, "order_canceled folded into live bucket")
	return nil
}
