package app

import (
	"context"

	"callcast/domain/forecast"
	"callcast/internal/errors"
	"callcast/ports"
)

// UploadElements are the page elements the upload handler reads and writes
type UploadElements struct {
	FileInput ports.FileSelector
	WeeksInfo ports.TextOutput
}

// UploadHandler sends the selected dataset to the service and shows how many
// weeks it holds.
type UploadHandler struct {
	loop     *Loop
	service  ports.ForecastService
	elements UploadElements
	notifier ports.Notifier
	diag     ports.Diagnostics
	gen      *generation
}

func NewUploadHandler(
	loop *Loop,
	service ports.ForecastService,
	elements UploadElements,
	notifier ports.Notifier,
	diag ports.Diagnostics,
	opts ...Option,
) *UploadHandler {
	o := buildOptions(opts)
	return &UploadHandler{
		loop:     loop,
		service:  service,
		elements: elements,
		notifier: notifier,
		diag:     diag,
		gen:      &generation{enabled: o.latestOnly},
	}
}

// Trigger starts one upload. With no file selected it notifies the user and
// returns an INVALID_INPUT error without touching the network. Otherwise it
// returns as soon as the call is scheduled.
func (h *UploadHandler) Trigger(ctx context.Context) error {
	selected := h.elements.FileInput.Selected()
	if len(selected) == 0 {
		h.notifier.Notify(forecast.NoticeSelectFile)
		return errors.InvalidInput(forecast.NoticeSelectFile)
	}

	file := selected[0]
	gen := h.gen.next()
	scheduled := h.loop.Go(ctx, func(ctx context.Context) func() {
		reply, err := h.service.Upload(ctx, file)
		return func() { h.deliver(gen, reply, err) }
	})
	if !scheduled {
		return errors.InternalError("dispatch loop is closed")
	}
	return nil
}

func (h *UploadHandler) deliver(gen uint64, reply forecast.UploadReply, err error) {
	if !h.gen.current(gen) {
		h.diag.Debug("[UploadHandler] dropping stale reply %d", gen)
		return
	}
	if err != nil {
		h.diag.Error("Upload Error: %v", err)
		h.notifier.Notify(forecast.NoticeUploadFailed)
		return
	}

	switch r := reply.(type) {
	case forecast.Rejection:
		h.notifier.Notify(r.Message)
	case *forecast.DatasetSummary:
		h.elements.WeeksInfo.SetText(forecast.WeeksLine(r))
	default:
		h.diag.Error("Upload Error: unexpected reply %T", reply)
		h.notifier.Notify(forecast.NoticeUploadFailed)
	}
}
