package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"exprc/internal/diag"
)

type palette struct {
	err, warn, info, code, origin, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan),
		code:   color.New(color.Bold),
		origin: color.New(color.FgBlue),
		note:   color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.origin, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее):
//
//	ERROR EXP3002: '%' operation can not be applied to float (F)
//	  --> geometry:ratio
//	  note: geometry:ratio.left: left operand is float (F)
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	// отброшенные лимитом bag тоже попадают в "... and N more" и итог
	errs, warns, hidden := bag.Count(diag.SevError), bag.Count(diag.SevWarning), bag.Dropped()
	for i, d := range bag.Items() {
		if opts.Max > 0 && i >= opts.Max {
			hidden++
			continue
		}
		if err := writeOne(w, p, d, opts); err != nil {
			return err
		}
	}
	if hidden > 0 {
		if _, err := fmt.Fprintf(w, "... and %d more\n", hidden); err != nil {
			return err
		}
	}
	if opts.Summary && (errs > 0 || warns > 0) {
		if _, err := fmt.Fprintln(w, summaryLine(errs, warns)); err != nil {
			return err
		}
	}
	return nil
}

func writeOne(w io.Writer, p palette, d diag.Diagnostic, opts PrettyOpts) error {
	msg := d.Message
	if opts.Width > 0 {
		msg = runewidth.Truncate(msg, opts.Width, "…")
	}
	var sb strings.Builder
	sb.WriteString(p.severity(d.Severity).Sprint(d.Severity.String()))
	sb.WriteByte(' ')
	sb.WriteString(p.code.Sprint(d.Code.ID()))
	sb.WriteString(": ")
	sb.WriteString(msg)
	sb.WriteByte('\n')
	if origin := d.Primary.String(); origin != "" {
		sb.WriteString("  --> ")
		sb.WriteString(p.origin.Sprint(origin))
		sb.WriteByte('\n')
	}
	if opts.ShowNotes {
		for _, n := range d.Notes {
			sb.WriteString("  ")
			sb.WriteString(p.note.Sprint("note:"))
			sb.WriteByte(' ')
			if o := n.Origin.String(); o != "" {
				sb.WriteString(o)
				sb.WriteString(": ")
			}
			sb.WriteString(n.Msg)
			sb.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func summaryLine(errs, warns int) string {
	parts := make([]string, 0, 2)
	if errs > 0 {
		parts = append(parts, plural(errs, "error"))
	}
	if warns > 0 {
		parts = append(parts, plural(warns, "warning"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
