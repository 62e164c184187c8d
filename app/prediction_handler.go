package app

import (
	"context"

	"callcast/domain/forecast"
	"callcast/internal/errors"
	"callcast/ports"
)

// PredictionElements are the page elements the prediction handler reads and writes
type PredictionElements struct {
	WeekInput        ports.TextInput
	PredictionResult ports.TextOutput
}

// PredictionHandler asks the service for the call forecast of a week
type PredictionHandler struct {
	loop     *Loop
	service  ports.ForecastService
	elements PredictionElements
	notifier ports.Notifier
	diag     ports.Diagnostics
	model    string
	sinks    []ports.PredictionSink
	gen      *generation
}

func NewPredictionHandler(
	loop *Loop,
	service ports.ForecastService,
	elements PredictionElements,
	notifier ports.Notifier,
	diag ports.Diagnostics,
	opts ...Option,
) *PredictionHandler {
	o := buildOptions(opts)
	return &PredictionHandler{
		loop:     loop,
		service:  service,
		elements: elements,
		notifier: notifier,
		diag:     diag,
		model:    o.model,
		sinks:    o.sinks,
		gen:      &generation{enabled: o.latestOnly},
	}
}

// Trigger starts one prediction. An empty week value is rejected locally;
// any other text, "0" included, is sent as typed.
func (h *PredictionHandler) Trigger(ctx context.Context) error {
	week := h.elements.WeekInput.Value()
	if week == "" {
		h.notifier.Notify(forecast.NoticeEnterWeek)
		return errors.InvalidInput(forecast.NoticeEnterWeek)
	}

	req := forecast.PredictRequest{Week: week, Model: h.model}
	gen := h.gen.next()
	scheduled := h.loop.Go(ctx, func(ctx context.Context) func() {
		reply, err := h.service.Predict(ctx, req)
		return func() { h.deliver(ctx, gen, week, reply, err) }
	})
	if !scheduled {
		return errors.InternalError("dispatch loop is closed")
	}
	return nil
}

func (h *PredictionHandler) deliver(ctx context.Context, gen uint64, week string, reply forecast.PredictReply, err error) {
	if !h.gen.current(gen) {
		h.diag.Debug("[PredictionHandler] dropping stale reply %d", gen)
		return
	}
	if err != nil {
		h.diag.Error("Prediction Error: %v", err)
		h.notifier.Notify(forecast.NoticePredictFailed)
		return
	}

	switch r := reply.(type) {
	case forecast.Rejection:
		h.notifier.Notify(r.Message)
	case *forecast.PredictionSet:
		h.elements.PredictionResult.SetText(forecast.PredictionsLine(r))
		for _, sink := range h.sinks {
			if err := sink.RecordPredictions(ctx, week, r); err != nil {
				h.diag.Warn("[PredictionHandler] sink failed for week %q: %v", week, err)
			}
		}
	default:
		h.diag.Error("Prediction Error: unexpected reply %T", reply)
		h.notifier.Notify(forecast.NoticePredictFailed)
	}
}
