package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/deepreview/deepreview/internal/core"
	"github.com/deepreview/deepreview/internal/review"
)

// Carries a chunk status snapshot from the running review.
type progressFrameMsg []core.ChunkStatus

// Indicates that the review finished, successfully or not.
type reviewDoneMsg struct {
	report *core.CombinedReport
	err    error
}

// startReviewCmd runs the review and closes the frame channel when it
// settles, so the frame relay below can wind down.
func startReviewCmd(ctx context.Context, svc *review.Service, req core.ReviewRequest, frames chan []core.ChunkStatus) tea.Cmd {
	return func() tea.Msg {
		report, err := svc.Review(ctx, req)
		close(frames)
		return reviewDoneMsg{report: report, err: err}
	}
}

// waitForFrameCmd relays one status snapshot onto the update loop. The model
// re-arms it after every frame until the channel closes.
func waitForFrameCmd(frames <-chan []core.ChunkStatus) tea.Cmd {
	return func() tea.Msg {
		frame, ok := <-frames
		if !ok {
			return nil
		}
		return progressFrameMsg(frame)
	}
}
