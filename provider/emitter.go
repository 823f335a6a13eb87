package provider

import (
	"github.com/google/uuid"

	"llmux/model"
)

// eventEmitter enforces the canonical sequencing invariant for every
// normalizer: one message-start first, one terminal message-end, deltas in
// between. Normalizers push deltas through it and it lazily opens the stream
// when a provider delivers content before (or without) an explicit start.
type eventEmitter struct {
	emit    EmitFunc
	started bool
	ended   bool
	usage   model.Usage
}

func newEventEmitter(emit EmitFunc) *eventEmitter {
	return &eventEmitter{emit: emit}
}

// start opens the stream with the provider-assigned message id, or a
// synthesized one when the provider did not supply any. Repeated calls are
// no-ops so providers that send multiple start-like events stay within the
// invariant.
func (e *eventEmitter) start(id string) error {
	if e.started {
		return nil
	}
	if id == "" {
		id = uuid.NewString()
	}
	e.started = true
	return e.emit(model.MessageStart(id))
}

// delta forwards a content delta, opening the stream first if needed.
func (e *eventEmitter) delta(ev model.StreamEvent) error {
	if err := e.start(""); err != nil {
		return err
	}
	return e.emit(ev)
}

// usageUpdate forwards a mid-stream snapshot of the running totals.
func (e *eventEmitter) usageUpdate() error {
	if err := e.start(""); err != nil {
		return err
	}
	return e.emit(model.UsageUpdate(e.usage))
}

// end closes the stream with the aggregated usage. Idempotent.
func (e *eventEmitter) end() error {
	if e.ended {
		return nil
	}
	if err := e.start(""); err != nil {
		return err
	}
	e.ended = true
	return e.emit(model.MessageEnd(e.usage))
}
