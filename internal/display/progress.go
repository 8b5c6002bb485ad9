package display

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/harrison/mvp/internal/models"
)

// ProgressIndicator prints one line per validated choice file and a gate
// tally at the end.
type ProgressIndicator struct {
	writer     io.Writer
	totalFiles int
	current    int
	gates      map[models.GateStatus]int
	step       *color.Color
	pass       *color.Color
	warn       *color.Color
	fail       *color.Color
}

// NewProgressIndicator creates a progress indicator for total files. With
// colored false every line is plain text.
func NewProgressIndicator(w io.Writer, total int, colored bool) *ProgressIndicator {
	p := &ProgressIndicator{
		writer:     w,
		totalFiles: total,
		gates:      make(map[models.GateStatus]int),
		step:       color.New(color.FgCyan),
		pass:       color.New(color.FgGreen),
		warn:       color.New(color.FgYellow),
		fail:       color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.step, p.pass, p.warn, p.fail} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Start displays the header message
func (p *ProgressIndicator) Start() {
	fmt.Fprintf(p.writer, "Validating %d choice files:\n", p.totalFiles)
}

// Step announces the next file: [N/Total] filename
func (p *ProgressIndicator) Step(filename string) {
	p.current++
	p.step.Fprintf(p.writer, "  [%d/%d] %s\n", p.current, p.totalFiles, filepath.Base(filename))
}

// Record counts the gate of the file announced by the last Step.
func (p *ProgressIndicator) Record(gate models.GateStatus) {
	p.gates[gate]++
}

// Complete prints how many files reached each gate.
func (p *ProgressIndicator) Complete() {
	mark := p.pass.Sprint("✓")
	if p.gates[models.GateFail] > 0 {
		mark = p.fail.Sprint("✗")
	} else if p.gates[models.GateWarning] > 0 {
		mark = p.warn.Sprint("!")
	}
	fmt.Fprintf(p.writer, "%s Validated %d choice files: %s, %s, %s\n", mark, p.current,
		p.pass.Sprintf("%d pass", p.gates[models.GatePass]),
		p.warn.Sprintf("%d warning", p.gates[models.GateWarning]),
		p.fail.Sprintf("%d fail", p.gates[models.GateFail]))
}
