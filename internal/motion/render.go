package motion

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// RenderOptions control the external text serialization of a program.
type RenderOptions struct {
	// Header prepends a creation-timestamp comment naming the frame.
	Header bool
	// Trailer appends the END PROGRAM line the controller expects for a
	// loadable task file. Leave false when the text will be concatenated
	// into a larger program.
	Trailer bool
}

// Render serializes the program one instruction per line. This is the
// stable external format consumed by the hardware-binding layer, which
// turns LINEAR/CW/CCW and gate lines into the device's native motion
// syntax.
func (p *Program) Render(opts RenderOptions) string {
	var b strings.Builder
	if opts.Header {
		fmt.Fprintf(&b, "' Created on %s (frame %s)\n", time.Now().Format("2006-01-02 15:04:05"), p.frame)
	}
	for _, instr := range p.instructions {
		b.WriteString(instr.Text())
		b.WriteByte('\n')
	}
	if opts.Trailer {
		b.WriteString("END PROGRAM\n")
	}
	return b.String()
}

// WriteFile renders the program as a complete loadable task file
// (header and trailer included) and writes it to path.
func (p *Program) WriteFile(path string) error {
	text := p.Render(RenderOptions{Header: true, Trailer: true})
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write program %s: %w", path, err)
	}
	return nil
}
