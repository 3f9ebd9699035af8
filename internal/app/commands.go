package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/reel/internal/log"
	"github.com/llehouerou/reel/internal/playback"
	"github.com/llehouerou/reel/internal/state"
	"github.com/llehouerou/reel/internal/stderr"
	"github.com/llehouerou/reel/internal/transport"
)

const loadTimeout = 30 * time.Second

// waitForChannel creates a command that waits for a value from a channel and converts it to a message.
// onResult receives the value and a boolean indicating if the channel is still open (false means channel closed).
func waitForChannel[T any](ch <-chan T, onResult func(T, bool) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		result, ok := <-ch
		return onResult(result, ok)
	}
}

// watchSubscription waits for the next event on any subscription channel.
// Events already buffered are returned in publish order: snapshot, status
// change, then end of item.
func watchSubscription(sub *playback.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case snap := <-sub.Updates:
			return SnapshotMsg(snap)
		default:
		}
		select {
		case e := <-sub.StatusChanged:
			return StatusChangedMsg(e)
		default:
		}
		select {
		case snap := <-sub.Updates:
			return SnapshotMsg(snap)
		case e := <-sub.StatusChanged:
			return StatusChangedMsg(e)
		case e := <-sub.Ended:
			return EndedMsg(e)
		case <-sub.Done:
			return SubscriptionClosedMsg{}
		}
	}
}

// WatchStderr returns a command that waits for stderr output from C libraries.
func WatchStderr() tea.Cmd {
	return waitForChannel[string](stderr.Messages, func(line string, ok bool) tea.Msg {
		if !ok {
			return nil
		}
		return StderrMsg{Line: line}
	})
}

// loadCmd binds item and looks up its saved position.
func loadCmd(p Player, st state.Interface, item transport.Item) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		if err := p.Load(ctx, item); err != nil {
			return LoadedMsg{Item: item, Err: err}
		}

		msg := LoadedMsg{Item: item}
		if st != nil {
			pos, err := st.GetPosition(item.URI)
			if err != nil {
				log.Warnf("restore position of %s: %v", item.URI, err)
			}
			msg.Resume = pos
		}
		return msg
	}
}
