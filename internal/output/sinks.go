package output

import "fmt"

// StdoutSink returns a line sink that relays child stdout lines verbatim.
func (p *Printer) StdoutSink() func(line string) {
	return func(line string) {
		_, _ = fmt.Fprintln(p.out, line)
	}
}

// StderrSink returns a line sink that relays child stderr lines with an
// "ERROR:" annotation, in red when color is enabled.
func (p *Printer) StderrSink() func(line string) {
	return func(line string) {
		if p.useColor {
			_, _ = fmt.Fprintf(p.err, "%sERROR:%s %s\n", colorRed, colorReset, line)
		} else {
			_, _ = fmt.Fprintf(p.err, "ERROR: %s\n", line)
		}
	}
}
