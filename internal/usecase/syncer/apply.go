package syncer

import (
	"context"

	"stayledger/internal/domain/ledgerevent"
	"stayledger/internal/pkg/errs"
	"stayledger/internal/usecase/readmodel"
)

type outcome int

const (
	outcomeApplied outcome = iota
	outcomeDuplicate
	outcomeIgnored
)

// ApplyEvents applies events in the given order. Each event is checked
// against the in-flight set and the committed set before its handler runs,
// and is committed only when the handler succeeds. Per-event failures are
// recorded and the batch continues; a systemic failure stops the batch and is
// returned. Safe for concurrent use.
func (e *Engine) ApplyEvents(ctx context.Context, events []ledgerevent.Event) (ApplyResult, error) {
	var res ApplyResult
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		result, identity, err := e.applyOne(ctx, ev)
		if err != nil {
			if isSystemic(err) {
				return res, err
			}
			e.logger.Warn("event handler failed",
				"identity", identity,
				"tx_id", ev.TxID,
				"event", ev.Name,
				"height", ev.Height,
				"tx_index", ev.TxIndex,
				"error", err.Error())
			res.Failures = append(res.Failures, EventFailure{
				Identity: identity,
				TxID:     ev.TxID,
				Event:    ev.Name,
				Height:   ev.Height,
				TxIndex:  ev.TxIndex,
				Error:    err.Error(),
			})
			continue
		}

		switch result {
		case outcomeDuplicate:
			res.Duplicates++
		case outcomeIgnored:
			res.Ignored++
		default:
			res.Applied++
		}
	}
	return res, nil
}

func (e *Engine) applyOne(ctx context.Context, ev ledgerevent.Event) (outcome, string, error) {
	identity, err := ledgerevent.Identity(ev)
	if err != nil {
		return 0, "", err
	}

	if !e.inflight.acquire(identity) {
		return outcomeDuplicate, identity, nil
	}
	defer e.inflight.release(identity)

	var done bool
	if err := e.call(ctx, func(ctx context.Context) error {
		var err error
		done, err = e.state.IsProcessed(ctx, identity)
		return err
	}); err != nil {
		return 0, identity, errs.Mark(err, errs.ErrProjectionUnavailable)
	}
	if done {
		return outcomeDuplicate, identity, nil
	}

	payload, err := ledgerevent.Decode(ev)
	if err != nil {
		return 0, identity, err
	}

	result := outcomeApplied
	if _, ignored := payload.(ledgerevent.Ignored); ignored {
		result = outcomeIgnored
	} else if err := e.handle(ctx, ev, payload); err != nil {
		return 0, identity, err
	}

	if err := e.call(ctx, func(ctx context.Context) error {
		return e.state.MarkProcessed(ctx, readmodel.ProcessedEventRM{
			Identity:  identity,
			TxID:      ev.TxID,
			EventName: string(ev.Name),
			Height:    ev.Height,
			TxIndex:   ev.TxIndex,
			AppliedAt: e.clock.Now(),
		})
	}); err != nil {
		return 0, identity, errs.Mark(err, errs.ErrProjectionUnavailable)
	}
	return result, identity, nil
}
