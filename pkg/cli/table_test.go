package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestTableOutput(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTableTo(&buf, "NODE", "KIND", "ID")
	tbl.Row("s1", "switch", "1")
	tbl.Row("h1", "host", "100")
	tbl.Flush()

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want headers + divider + 2 rows:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "NODE") {
		t.Errorf("first line should be headers: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "----") {
		t.Errorf("second line should be the divider: %q", lines[1])
	}
}

func TestEmptyTableProducesNoOutput(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTableTo(&buf, "A", "B")
	tbl.Flush()
	if buf.Len() != 0 {
		t.Errorf("empty table wrote %q", buf.String())
	}
}

func TestTablePrefix(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTableTo(&buf, "A").WithPrefix("  ")
	tbl.Row("x")
	tbl.Flush()

	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		if !strings.HasPrefix(line, "  ") {
			t.Errorf("line %q missing prefix", line)
		}
	}
}
