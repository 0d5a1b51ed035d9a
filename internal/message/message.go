// Package message provides an ordered container of ASCII text lines.
package message

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrOutOfRange      = errors.New("out of range")
)

// MaxCode is the highest character code a line may contain.
const MaxCode = 127

// Message is an ordered list of ASCII lines.
// It is not safe for concurrent mutation.
type Message struct {
	lines []string
}

func New(lines ...string) (*Message, error) {
	m := &Message{}
	for _, line := range lines {
		if err := m.AppendLine(line); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Message) LineCount() int {
	return len(m.lines)
}

func (m *Message) Line(i int) (string, error) {
	if i < 0 || i >= len(m.lines) {
		return "", fmt.Errorf("message: line %d of %d: %w", i, len(m.lines), ErrOutOfRange)
	}
	return m.lines[i], nil
}

func (m *Message) AppendLine(s string) error {
	if i := nonASCII(s); i >= 0 {
		return fmt.Errorf("message: byte %d of line %d is not ascii: %w", i, len(m.lines), ErrInvalidArgument)
	}
	m.lines = append(m.lines, s)
	return nil
}

func (m *Message) Lines() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for i, line := range m.lines {
			if !yield(i, line) {
				return
			}
		}
	}
}

// String renders the lines in order separated by newlines.
func (m *Message) String() string {
	return strings.Join(m.lines, "\n")
}

// Read splits r into lines. Both "\n" and "\r\n" terminate a line.
func Read(r io.Reader) (*Message, error) {
	m := &Message{}

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1<<30)
	for s.Scan() {
		if err := m.AppendLine(s.Text()); err != nil {
			return nil, err
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("message: read: %w", err)
	}
	return m, nil
}

func nonASCII(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] > MaxCode {
			return i
		}
	}
	return -1
}
