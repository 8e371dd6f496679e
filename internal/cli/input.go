// Package cli is the line-mode front-end of the word finder, used by
// `wordscape find` when no query flags are given.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/wordscape/pkg/widget"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const usage = `enter "letters [template]", e.g. "tca c.." (template uses '.' for any letter)
  +      add a slot       -      remove a slot
  clear  reset the form   quit   exit`

var wordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

// InputHandler reads queries from a line-oriented input and drives a
// coordinator, one search at a time.
type InputHandler struct {
	coord *widget.Coordinator
	in    io.Reader
	out   io.Writer
	view  *lineRenderer
}

// NewInputHandler creates a handler printing at most limit results per query
// (0 means all).
func NewInputHandler(searcher widget.Searcher, in io.Reader, out io.Writer, slots, limit int) *InputHandler {
	view := &lineRenderer{out: out, limit: limit}
	return &InputHandler{
		coord: widget.NewCoordinator(searcher, widget.WithRenderer(view), widget.WithSlots(slots)),
		in:    in,
		out:   out,
		view:  view,
	}
}

// Start runs the prompt loop until the input ends, the user quits or ctx is done.
func (h *InputHandler) Start(ctx context.Context) error {
	fmt.Fprintln(h.out, "wordscape finder")
	fmt.Fprintln(h.out, usage)
	h.coord.Init()

	scanner := bufio.NewScanner(h.in)
	for {
		fmt.Fprint(h.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(h.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		h.handleInput(ctx, line)
	}
}

func (h *InputHandler) handleInput(ctx context.Context, line string) {
	var req *widget.Request
	switch line {
	case "+":
		req = h.coord.AddSlot()
	case "-":
		req = h.coord.RemoveSlot()
	case "clear":
		h.coord.Clear()
		fmt.Fprintln(h.out, "cleared")
		return
	case "help", "?":
		fmt.Fprintln(h.out, usage)
		return
	default:
		var err error
		if req, err = h.apply(strings.Fields(line)); err != nil {
			log.Error(err)
			return
		}
	}

	h.coord.Dispatch(ctx, req)
	h.coord.Wait()
	h.summarize()
}

// apply writes letters and an optional template into the form and returns the
// newest request issued along the way; older ones are stale by then.
func (h *InputHandler) apply(fields []string) (*widget.Request, error) {
	var last *widget.Request
	keep := func(r *widget.Request) {
		if r != nil {
			last = r
		}
	}

	if len(fields) > 1 {
		tmpl := fields[1]
		n := utf8.RuneCountInString(tmpl)
		if n < widget.MinSlots || n > widget.MaxSlots {
			return nil, fmt.Errorf("template %q must have %d to %d characters", tmpl, widget.MinSlots, widget.MaxSlots)
		}
		for len(h.coord.Slots()) < n {
			keep(h.coord.AddSlot())
		}
		for len(h.coord.Slots()) > n {
			keep(h.coord.RemoveSlot())
		}
		keep(h.coord.SetLetters(fields[0]))
		i := 0
		for _, r := range tmpl {
			v := string(r)
			if r == widget.Wildcard {
				v = ""
			}
			keep(h.coord.SetSlot(i, v))
			i++
		}
		return last, nil
	}

	keep(h.coord.SetLetters(fields[0]))
	return last, nil
}

func (h *InputHandler) summarize() {
	pattern := h.coord.Pattern()
	if h.coord.Invalid() {
		fmt.Fprintf(h.out, "need at least %d letters for |%s|\n", len(h.coord.Slots()), pattern)
		return
	}
	results := h.coord.Results()
	if hidden := len(results) - h.view.shown; hidden > 0 {
		fmt.Fprintf(h.out, "    ... and %d more\n", hidden)
	}
	fmt.Fprintf(h.out, "%d words from '%s' fit |%s|\n", len(results), h.coord.Letters(), pattern)
}

// lineRenderer prints results as they are appended.
type lineRenderer struct {
	widget.NopRenderer
	out   io.Writer
	limit int
	shown int
}

func (r *lineRenderer) ClearResults() {
	r.shown = 0
}

func (r *lineRenderer) AppendResult(item string) {
	if r.limit > 0 && r.shown >= r.limit {
		return
	}
	r.shown++
	fmt.Fprintf(r.out, "%3d. %s\n", r.shown, wordStyle.Render(item))
}

func (r *lineRenderer) SetInvalid(invalid bool) {
	if invalid {
		log.Debug("letter bank is shorter than the pattern")
	}
}
