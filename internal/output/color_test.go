package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinterPlainOutput(t *testing.T) {
	var out, errBuf bytes.Buffer
	p := NewPrinterWithWriters(&out, &errBuf, false)

	p.Success("built %s", "image")
	p.Info("starting")
	p.Step("step one")
	p.Detail("detail line")
	p.Error("boom")
	p.Warning("careful")

	assert.Equal(t, "✓ built image\n→ starting\n▶ step one\n  detail line\n", out.String())
	assert.Equal(t, "✗ boom\n⚠ careful\n", errBuf.String())
}

func TestPrinterColorOutput(t *testing.T) {
	var out, errBuf bytes.Buffer
	p := NewPrinterWithWriters(&out, &errBuf, true)

	p.Success("done")
	p.Error("failed")

	assert.Contains(t, out.String(), colorGreen)
	assert.Contains(t, out.String(), colorReset)
	assert.Contains(t, errBuf.String(), colorRed)
}

func TestPrinterCommand(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinterWithWriters(&out, &out, false)

	p.Command([]string{"claude", "mcp", "list"})

	assert.Equal(t, "$ claude mcp list\n", out.String())
}

func TestPrinterPrint(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinterWithWriters(&out, &out, true)

	p.Print("raw %d", 7)
	p.Println("line")

	assert.Equal(t, "raw 7line\n", out.String())
}

func TestStdoutSinkRelaysVerbatim(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinterWithWriters(&out, &out, false)

	sink := p.StdoutSink()
	sink("hello")
	sink("world")

	assert.Equal(t, "hello\nworld\n", out.String())
}

func TestStderrSinkAnnotatesLines(t *testing.T) {
	var out, errBuf bytes.Buffer
	p := NewPrinterWithWriters(&out, &errBuf, false)

	p.StderrSink()("something broke")

	assert.Empty(t, out.String())
	assert.Equal(t, "ERROR: something broke\n", errBuf.String())
}

func TestStderrSinkColor(t *testing.T) {
	var errBuf bytes.Buffer
	p := NewPrinterWithWriters(&bytes.Buffer{}, &errBuf, true)

	p.StderrSink()("oops")

	assert.Contains(t, errBuf.String(), colorRed+"ERROR:"+colorReset+" oops")
}

func TestIsTerminalRespectsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, isTerminal())
}
