// Package cells provides A1-notation cell label operations used by the
// extraction and posting code: label/coordinate conversion, natural ordering
// of labels and the row-major "earliest label" comparison.
package cells

import (
	"fmt"
	"sort"
	"strings"
)

// LabelToRowCol converts an A1 label to 1-based row and column numbers.
// "B8" returns (8, 2).
func LabelToRowCol(label string) (row, col int, err error) {
	i := 0
	for i < len(label) && label[i] >= 'A' && label[i] <= 'Z' {
		col = col*26 + int(label[i]-'A'+1)
		i++
	}
	if i == 0 || i == len(label) {
		return 0, 0, fmt.Errorf("malformed cell label '%s'", label)
	}
	for ; i < len(label); i++ {
		if label[i] < '0' || label[i] > '9' {
			return 0, 0, fmt.Errorf("malformed cell label '%s'", label)
		}
		row = row*10 + int(label[i]-'0')
	}
	if row == 0 {
		return 0, 0, fmt.Errorf("malformed cell label '%s'", label)
	}
	return row, col, nil
}

// RowColToLabel converts 1-based row and column numbers to an A1 label.
// (8, 2) returns "B8".
func RowColToLabel(row, col int) string {
	var letters strings.Builder
	for col > 0 {
		col--
		letters.WriteByte(byte('A' + col%26))
		col /= 26
	}
	b := []byte(letters.String())
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return fmt.Sprintf("%s%d", b, row)
}

// LabelToCoords converts an A1 label to 0-based array coordinates.
// "A1" returns (0, 0).
func LabelToCoords(label string) (y, x int, err error) {
	row, col, err := LabelToRowCol(label)
	if err != nil {
		return 0, 0, err
	}
	return row - 1, col - 1, nil
}

// Less compares two labels in natural order: the letter part first, shorter
// letter runs before longer ones, then the numeric part. "B8" sorts before
// "B10" and "Z1" before "AA1".
func Less(a, b string) bool {
	la, na := split(a)
	lb, nb := split(b)
	if la != lb {
		if len(la) != len(lb) {
			return len(la) < len(lb)
		}
		return la < lb
	}
	return na < nb
}

// SortLabels sorts labels in place in natural order.
func SortLabels(labels []string) {
	sort.Slice(labels, func(i, j int) bool { return Less(labels[i], labels[j]) })
}

// EarliestLabel returns the topologically earliest label: smallest row first,
// then smallest column. With equal coordinates the first argument wins.
func EarliestLabel(labels ...string) string {
	if len(labels) == 0 {
		return ""
	}
	earliest := labels[0]
	er, ec, _ := LabelToRowCol(earliest)
	for _, label := range labels[1:] {
		r, c, err := LabelToRowCol(label)
		if err != nil {
			continue
		}
		if r < er || (r == er && c < ec) {
			earliest, er, ec = label, r, c
		}
	}
	return earliest
}

func split(label string) (letters string, number int) {
	i := 0
	for i < len(label) && label[i] >= 'A' && label[i] <= 'Z' {
		i++
	}
	letters = label[:i]
	for ; i < len(label); i++ {
		if label[i] < '0' || label[i] > '9' {
			break
		}
		number = number*10 + int(label[i]-'0')
	}
	return letters, number
}
