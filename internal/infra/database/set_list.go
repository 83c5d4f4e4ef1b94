package database

import (
	"fmt"
	"strings"
)

// setList collects "col = $n" pairs for partial UPDATE statements.
type setList struct {
	cols []string
	args []any
}

func (s *setList) add(col string, v any) {
	s.cols = append(s.cols, col)
	s.args = append(s.args, v)
}

// clause renders the SET body with placeholders numbered from first.
func (s *setList) clause(first int) string {
	parts := make([]string, len(s.cols))
	for i, col := range s.cols {
		parts[i] = fmt.Sprintf("%s = $%d", col, first+i)
	}
	return strings.Join(parts, ", ")
}
