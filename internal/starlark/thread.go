package starlark

import (
	"context"

	"go.starlark.net/starlark"
)

// newThread returns a thread whose print writes through PUT_LINE and which
// is cancelled with ctx. Call stop once the script has finished.
func (h *Host) newThread(ctx context.Context, name string) (thread *starlark.Thread, stop func()) {
	thread = &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			if err := h.proc.PutText(msg); err != nil {
				h.logger.Warn("print failed", "error", err)
			}
		},
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			thread.Cancel(context.Cause(ctx).Error())
		case <-done:
		}
	}()
	return thread, func() { close(done) }
}
