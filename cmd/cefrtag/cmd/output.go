package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/corey/cefrtag/internal/domain/tagger"
	"github.com/corey/cefrtag/internal/domain/vocab"
	"github.com/corey/cefrtag/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorRed     = "\033[31m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

// levelColor gives each band its own color, easiest to hardest.
var levelColor = map[vocab.Level]string{
	vocab.A1: colorGreen,
	vocab.A2: colorCyan,
	vocab.B1: colorYellow,
	vocab.B2: colorMagenta,
	vocab.C1: colorRed,
}

// paint wraps s in a color code when color output is on.
func paint(code, s string) string {
	if !useColor {
		return s
	}
	return code + s + colorReset
}

func paintLevel(l vocab.Level) string {
	code, ok := levelColor[l]
	if !ok {
		code = colorBold
	}
	return paint(code, string(l))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatReport renders a grouped tagging report.
//
//	⚡ 5 tagged │ A1 3  A2 1  B1 1
//	  A1  An -> a/an, apple, car
//	  A2  stick -> stick (piece of wood)
func formatReport(r tagger.Report) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %d tagged", paint(colorBold, "⚡"), r.Stats.TotalTagged))
	if r.Stats.TotalTagged > 0 {
		sb.WriteString(" │")
		for _, l := range r.Levels {
			if n := r.Stats.ByLevel[l]; n > 0 {
				sb.WriteString(fmt.Sprintf(" %s %d ", paintLevel(l), n))
			}
		}
	}
	sb.WriteString("\n")

	for _, l := range r.Levels {
		words := r.TaggedWords[l]
		if len(words) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s  %s\n", paintLevel(l), strings.Join(words, ", ")))
	}
	return sb.String()
}

// formatOccurrences renders one occurrence per line in text order.
func formatOccurrences(occs []tagger.Occurrence) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %d occurrences\n", paint(colorBold, "⚡"), len(occs)))
	for _, o := range occs {
		sb.WriteString(fmt.Sprintf("  %s  %s", paintLevel(o.Level), o.Token))
		if !strings.EqualFold(o.Token, o.Entry) {
			sb.WriteString(paint(colorGray, "  ("+o.Entry+")"))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatStats renders per-level entry counts and the source state.
func formatStats(st ports.StatsResult, h ports.HealthResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %d entries │ %s │ %s\n",
		paint(colorBold, "⚡"), st.TotalWords, h.Source, statusLabel(h.Status)))
	for _, l := range st.Levels {
		sb.WriteString(fmt.Sprintf("  %s  %6d\n", paintLevel(vocab.Level(l)), st.VocabularyStats[l]))
	}
	if h.Malformed > 0 {
		sb.WriteString(paint(colorYellow, fmt.Sprintf("  %d malformed entries (listed, not matchable)\n", h.Malformed)))
	}
	if h.Error != "" {
		sb.WriteString(paint(colorGray, "  "+h.Error) + "\n")
	}
	return sb.String()
}

// formatCheck renders a single-word lookup.
func formatCheck(res vocab.CheckResult) string {
	if !res.Found {
		return fmt.Sprintf("%s %q not in vocabulary\n", paint(colorBold, "⚡"), res.Word)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %q found %d time(s)\n", paint(colorBold, "⚡"), res.Word, len(res.Occurrences)))
	for _, ref := range res.Occurrences {
		sb.WriteString(fmt.Sprintf("  %s  %s\n", paintLevel(ref.Level), ref.Entry))
	}
	return sb.String()
}

// formatLevel renders a level listing.
func formatLevel(res ports.LevelResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s │ %d entries\n", paint(colorBold, "⚡"), paintLevel(vocab.Level(res.Level)), res.WordCount))
	for _, w := range res.Words {
		sb.WriteString("  " + w + "\n")
	}
	if len(res.Words) < res.WordCount {
		sb.WriteString(paint(colorGray, fmt.Sprintf("  … %d more (use --limit)\n", res.WordCount-len(res.Words))))
	}
	return sb.String()
}

func statusLabel(status string) string {
	switch status {
	case ports.HealthOK:
		return paint(colorGreen, "✓ "+status)
	case ports.HealthDegraded:
		return paint(colorYellow, "✗ "+status)
	default:
		return paint(colorGray, status)
	}
}
