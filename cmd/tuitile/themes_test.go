package main

import (
	"strings"
	"testing"

	"github.com/Gaurav-Gosain/tuitile/internal/theme"
)

func TestPaletteRows(t *testing.T) {
	if err := theme.Initialize(""); err != nil {
		t.Fatal(err)
	}
	rows := paletteRows()
	if len(rows) == 0 {
		t.Fatal("no palette rows")
	}
	for _, row := range rows {
		if len(row) != 3 {
			t.Fatalf("row %v has %d columns, want 3", row, len(row))
		}
		if !strings.HasPrefix(row[1], "#") || len(row[1]) != 7 {
			t.Errorf("%s color = %q, want a hex value", row[0], row[1])
		}
	}
	if rows[2][0] != "Floating border" || rows[2][1] != "#faaaaa" {
		t.Errorf("floating border row = %v, want the built-in #faaaaa", rows[2])
	}
}
