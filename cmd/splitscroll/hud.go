package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/taigrr/splitscroll/pkg/stage"
)

// HUD renders an overlay with story progress and controls
type HUD struct {
	title     string
	show      bool
	fps       float64
	fpsFrames int
	fpsTime   time.Time

	proc    *process.Process
	rss     uint64
	rssTime time.Time
}

// NewHUD creates a new HUD
func NewHUD(title string) *HUD {
	h := &HUD{title: title, fpsTime: time.Now()}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		h.proc = p
	}
	return h
}

// Toggle shows or hides the overlay.
func (h *HUD) Toggle() { h.show = !h.show }

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
		h.sampleRSS()
	}
}

func (h *HUD) sampleRSS() {
	if h.proc == nil || time.Since(h.rssTime) < 2*time.Second {
		return
	}
	h.rssTime = time.Now()
	if mem, err := h.proc.MemoryInfo(); err == nil {
		h.rss = mem.RSS
	}
}

// Render draws the HUD overlay directly to the terminal
func (h *HUD) Render(w io.Writer, width, height int, st stage.Stats) {
	// ANSI escape codes for positioning and styling
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	var b strings.Builder
	// Always clear the HUD rows (so toggling off works)
	b.WriteString(moveTo(1, 1) + clearLine)
	b.WriteString(moveTo(height, 1) + clearLine)
	defer func() { io.WriteString(w, b.String()) }()

	if !h.show {
		return
	}

	// Top left: FPS and memory
	fmt.Fprintf(&b, "%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)
	if h.rss > 0 {
		fmt.Fprintf(&b, "%s%s %.1f MiB %s", bgBlack, dim, float64(h.rss)/(1<<20), reset)
	}

	// Top middle: title
	titleCol := max((width-len(h.title)-2)/2, 1)
	fmt.Fprintf(&b, "%s%s%s%s %s %s", moveTo(1, titleCol), bold, bgBlack, fgWhite, h.title, reset)

	// Top right: triangle count
	polys := fmt.Sprintf(" %d/%d models  %d polys ", st.Ready, st.Models, st.Triangles)
	fmt.Fprintf(&b, "%s%s%s%s%s%s", moveTo(1, max(width-len(polys)+1, 1)), bgBlack, fgCyan, bold, polys, reset)

	// Bottom: scroll progress and timeline state
	check := "[ ]"
	if st.Reduced {
		check = "[✓]"
	}
	fmt.Fprintf(&b, "%s%s%s scroll %3.0f%%  timeline %3.0f%% (%s)  %s M: reduce motion %s",
		moveTo(height, 1), bgBlack, fgWhite, st.Scroll*100, st.Progress*100, st.State, check, reset)

	hint := fmt.Sprintf("%s%s%s drag: orbit  R: reset %s", bgBlack, dim, fgYellow, reset)
	fmt.Fprint(&b, moveTo(height, max(width-22, 1))+hint)
}
