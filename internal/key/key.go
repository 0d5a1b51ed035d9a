// Package key parses and formats numeric shift keys.
package key

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrSyntax = errors.New("key: syntax error")

func split(r rune) bool {
	return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// Parse reads a list of integers separated by commas and/or whitespace.
// An empty string is an empty key.
func Parse(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, split)

	key := make([]int, 0, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: value %d %q is not an integer", ErrSyntax, i, f)
		}
		key = append(key, n)
	}
	return key, nil
}

func Format(key []int) string {
	s := &strings.Builder{}
	for i, n := range key {
		if i > 0 {
			s.WriteByte(',')
		}
		s.WriteString(strconv.Itoa(n))
	}
	return s.String()
}
