package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/nazmulcodes/deshcart-backend/pkg/enums"
	"github.com/google/uuid"
)

type stubManager struct {
	checkResult bool
	checkErr    error
	checked     []uuid.UUID
	deleted     []uuid.UUID
}

func (s *stubManager) CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error) {
	s.checked = append(s.checked, eventID)
	return s.checkResult, s.checkErr
}

func (s *stubManager) Delete(ctx context.Context, consumer string, eventID uuid.UUID) error {
	s.deleted = append(s.deleted, eventID)
	return nil
}

type stubHandler struct {
	err    error
	called bool
}

func (s *stubHandler) Handle(ctx context.Context, envelope Envelope) error {
	s.called = true
	return s.err
}

func newTestWorker(handler EnvelopeHandler, manager idempotencyChecker) *Worker {
	return &Worker{
		handler: handler,
		manager: manager,
		logg:    sinkTestLogger(),
	}
}

func buildOrderMessage(t *testing.T) *gcppubsub.Message {
	t.Helper()

	data, err := json.Marshal(orderEvent("120"))
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	stored := PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		Data:       data,
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return &gcppubsub.Message{
		ID:         "msg-1",
		Data:       raw,
		Attributes: map[string]string{"event_type": "order_placed"},
	}
}

func TestWorkerBuildEnvelope(t *testing.T) {
	worker := newTestWorker(&stubHandler{}, &stubManager{})

	msg := buildOrderMessage(t)
	envelope, err := worker.buildEnvelope(msg)
	if err != nil {
		t.Fatalf("build envelope: %v", err)
	}
	if envelope.EventType != enums.OrderEventPlaced {
		t.Fatalf("unexpected event type %v", envelope.EventType)
	}
	if envelope.OccurredAt != time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected occurred at %v", envelope.OccurredAt)
	}
	if len(envelope.Payload) == 0 {
		t.Fatalf("payload missing")
	}
}

func TestWorkerAlreadyProcessedAcks(t *testing.T) {
	manager := &stubManager{checkResult: true}
	handler := &stubHandler{}
	worker := newTestWorker(handler, manager)

	res := worker.process(context.Background(), buildOrderMessage(t))
	if res.nack {
		t.Fatalf("expected ack for already processed event")
	}
	if handler.called {
		t.Fatalf("handler should not run for duplicate events")
	}
	if len(manager.checked) != 1 {
		t.Fatalf("expected one idempotency check, got %d", len(manager.checked))
	}
}

func TestWorkerHandlerErrorNacksAndUnmarks(t *testing.T) {
	manager := &stubManager{}
	handler := &stubHandler{err: errors.New("boom")}
	worker := newTestWorker(handler, manager)

	res := worker.process(context.Background(), buildOrderMessage(t))
	if !res.nack {
		t.Fatalf("expected nack on handler error")
	}
	if len(manager.deleted) != 1 {
		t.Fatalf("expected idempotency mark removed for retry")
	}
}

func TestWorkerIdempotencyErrorNacks(t *testing.T) {
	manager := &stubManager{checkErr: errors.New("redis down")}
	worker := newTestWorker(&stubHandler{}, manager)

	res := worker.process(context.Background(), buildOrderMessage(t))
	if !res.nack {
		t.Fatalf("expected nack when idempotency check fails")
	}
}

func TestWorkerInvalidEnvelopeAcks(t *testing.T) {
	handler := &stubHandler{}
	worker := newTestWorker(handler, &stubManager{})

	res := worker.process(context.Background(), &gcppubsub.Message{Data: []byte("not json")})
	if res.nack {
		t.Fatalf("poison message must ack, not redeliver")
	}
	if handler.called {
		t.Fatalf("handler should not run for invalid envelopes")
	}
}

func TestWorkerInvalidEventTypeAcks(t *testing.T) {
	worker := newTestWorker(&stubHandler{}, &stubManager{})

	msg := buildOrderMessage(t)
	msg.Attributes["event_type"] = "order_refunded"

	if res := worker.process(context.Background(), msg); res.nack {
		t.Fatalf("unknown event type must ack")
	}
}
