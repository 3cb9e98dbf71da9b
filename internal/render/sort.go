package render

import (
	"sort"
	"strings"

	"github.com/wesleyorama2/jmdash/internal/dataset"
)

// SortedRows returns a copy of the regular rows ordered by the table's sort spec.
// The sort is stable; columns out of range are ignored.
func (t *Table) SortedRows() []Row {
	rows := append([]Row(nil), t.Rows...)
	if len(t.Sort) == 0 {
		return rows
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, key := range t.Sort {
			c := compareCells(rows[i].Raw, rows[j].Raw, key.Column)
			if c == 0 {
				continue
			}
			if key.Direction == Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return rows
}

func compareCells(a, b []dataset.Value, col int) int {
	if col < 0 || col >= len(a) || col >= len(b) {
		return 0
	}
	return CompareValues(a[col], b[col])
}

// CompareValues orders numbers numerically, strings case-insensitively, and numbers
// before strings.
func CompareValues(a, b dataset.Value) int {
	an, aNum := a.Float()
	bn, bNum := b.Float()

	switch {
	case aNum && bNum:
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return 0
	case aNum:
		return -1
	case bNum:
		return 1
	}

	return strings.Compare(strings.ToLower(a.String()), strings.ToLower(b.String()))
}
