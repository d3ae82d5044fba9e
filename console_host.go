// console_host.go - Raw-mode terminal console for driving the mixer

package main

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// ConsoleHost reads raw stdin and maps keys onto the engine control surface,
// while a ticker repaints a one-line meter readout. Control thread only; the
// render path is never touched from here except through the documented
// lock-free fields.
//
// Keys: space=transport  n=next track  p=track play  m=mute  s=solo  a=arm
// +/-=volume  [ ]=pan  t=add track  q=quit
type ConsoleHost struct {
	engine       *MixEngine
	stopCh       chan struct{}
	done         chan struct{}
	quitCh       chan struct{}
	stopped      sync.Once
	quitOnce     sync.Once
	fd           int
	nonblockSet  bool
	oldTermState *term.State
	selected     int
}

func NewConsoleHost(engine *MixEngine) *ConsoleHost {
	return &ConsoleHost{
		engine: engine,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
		quitCh: make(chan struct{}),
	}
}

// Quit is closed when the user presses q.
func (h *ConsoleHost) Quit() <-chan struct{} {
	return h.quitCh
}

// Start sets stdin to raw non-blocking mode and begins the key/meter loop.
// Call Stop() to restore the terminal.
func (h *ConsoleHost) Start() {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "console_host: failed to set raw mode: %v\n", err)
		close(h.done)
		return
	}
	h.oldTermState = oldState

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		fmt.Fprintf(os.Stderr, "console_host: failed to set nonblocking stdin: %v\n", err)
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
		close(h.done)
		return
	}
	h.nonblockSet = true

	go func() {
		defer close(h.done)
		buf := make([]byte, 1)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-h.stopCh:
				return
			case <-ticker.C:
				h.paintMeters()
			default:
			}

			n, _ := os.Stdin.Read(buf)
			if n == 0 {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if !h.handleKey(buf[0]) {
				h.quitOnce.Do(func() { close(h.quitCh) })
				return
			}
		}
	}()
}

// handleKey applies one key to the engine. Returns false on quit.
func (h *ConsoleHost) handleKey(key byte) bool {
	engine := h.engine
	track := engine.Track(h.selected)

	switch key {
	case 'q', 0x03: // q or Ctrl-C
		return false
	case ' ':
		if engine.IsPlaying() {
			engine.Stop()
		} else {
			engine.Start()
		}
	case 'n', '\t':
		if engine.TrackCount() > 0 {
			h.selected = (h.selected + 1) % engine.TrackCount()
		}
	case 't':
		idx := engine.AddTrack(fmt.Sprintf("Track %d", engine.TrackCount()+1), 220.0)
		if idx >= 0 {
			h.selected = idx
			engine.Track(idx).SetPlaying(true)
		}
	case 'p':
		if track != nil {
			track.SetPlaying(!track.IsPlaying())
		}
	case 'm':
		if track != nil {
			track.Mute = !track.Mute
		}
	case 's':
		if track != nil {
			track.Solo = !track.Solo
		}
	case 'a':
		if track != nil {
			track.Armed = !track.Armed
		}
	case '+', '=':
		if track != nil {
			engine.SetTrackVolume(h.selected, track.Volume+0.05)
		}
	case '-':
		if track != nil {
			engine.SetTrackVolume(h.selected, track.Volume-0.05)
		}
	case '[':
		if track != nil {
			engine.SetTrackPan(h.selected, track.Pan-0.1)
		}
	case ']':
		if track != nil {
			engine.SetTrackPan(h.selected, track.Pan+0.1)
		}
	}
	return true
}

func (h *ConsoleHost) paintMeters() {
	engine := h.engine
	transport := "STOP"
	if engine.IsPlaying() {
		transport = "PLAY"
	}

	line := fmt.Sprintf("\r[%s] master %s %s", transport,
		meterBar(engine.MasterPeak[0]), meterBar(engine.MasterPeak[1]))

	if track := engine.Track(h.selected); track != nil {
		flags := ""
		if track.Mute {
			flags += "M"
		}
		if track.Solo {
			flags += "S"
		}
		if track.IsPlaying() {
			flags += ">"
		}
		line += fmt.Sprintf(" | %d:%s %-3s vol %.2f pan %+.1f %s %s",
			h.selected, track.Name, flags, track.Volume, track.Pan,
			meterBar(track.PeakLevel[0]), meterBar(track.PeakLevel[1]))
	}

	fmt.Print(line + "\x1b[K")
}

// meterBar renders a peak level as a 10-char bar.
func meterBar(level float32) string {
	const width = 10
	lit := int(level * width)
	if lit > width {
		lit = width
	}
	bar := make([]byte, width)
	for i := range bar {
		if i < lit {
			bar[i] = '#'
		} else {
			bar[i] = '.'
		}
	}
	return string(bar)
}

// Stop halts the loop and restores the terminal. Safe to call twice.
func (h *ConsoleHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
		<-h.done

		if h.nonblockSet {
			_ = syscall.SetNonblock(h.fd, false)
			h.nonblockSet = false
		}
		if h.oldTermState != nil {
			_ = term.Restore(h.fd, h.oldTermState)
			h.oldTermState = nil
		}
		fmt.Print("\r\n")
	})
}
