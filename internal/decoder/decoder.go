// Package decoder reverses a repeating numeric shift cipher over ASCII messages.
//
// Every character code c at position i of a line is shifted back by
// key[i % len(key)]. When the result is negative 128 is added once. The key
// position restarts at zero on every line.
package decoder

import (
	"errors"
	"fmt"
	"strings"

	"vigenere/internal/message"
	"vigenere/internal/rec"
)

var (
	ErrInvalidArgument = message.ErrInvalidArgument
	ErrInvalidState    = errors.New("invalid state")
	ErrOutOfRange      = message.ErrOutOfRange
)

// MaxShift is the largest shift for which a single wraparound keeps
// every decoded code inside [0, message.MaxCode].
const MaxShift = message.MaxCode + 1

type State int

const (
	Pending State = iota
	Decoded
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Decoded:
		return "decoded"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Decoder decodes one message exactly once.
// It is not safe for concurrent use.
type Decoder struct {
	state   State
	source  *message.Message
	key     []int
	decoded *message.Message
}

// New holds msg and key without copying them.
func New(msg *message.Message, key []int) (*Decoder, error) {
	if msg == nil {
		return nil, fmt.Errorf("decoder: nil message: %w", ErrInvalidArgument)
	}
	if key == nil {
		return nil, fmt.Errorf("decoder: nil key: %w", ErrInvalidArgument)
	}
	return &Decoder{
		state:  Pending,
		source: msg,
		key:    key,
	}, nil
}

func (d *Decoder) State() State {
	return d.state
}

func (d *Decoder) Key() []int {
	return d.key
}

// Decode decodes every line of the source message in order. The result is
// published only if all lines decode; on error the decoder stays pending.
func (d *Decoder) Decode() (err error) {
	defer rec.Wrap(&err, "decoder: decode: %w")

	if d.state != Pending {
		return fmt.Errorf("already %s: %w", d.state, ErrInvalidState)
	}

	if d.source.LineCount() == 0 {
		d.key = []int{}
		d.decoded = &message.Message{}
		d.state = Decoded
		return nil
	}

	if err := ValidateKey(d.key); err != nil {
		return err
	}

	out := &message.Message{}
	for _, line := range d.source.Lines() {
		if line != "" && len(d.key) == 0 {
			return fmt.Errorf("empty key for non-empty line: %w", ErrInvalidArgument)
		}
		if err := out.AppendLine(DecodeLine(line, d.key)); err != nil {
			return err
		}
	}

	d.decoded = out
	d.state = Decoded
	return nil
}

func (d *Decoder) Message() (*message.Message, error) {
	if d.state != Decoded {
		return nil, fmt.Errorf("decoder: message not decoded yet: %w", ErrInvalidState)
	}
	return d.decoded, nil
}

func (d *Decoder) Text() (string, error) {
	m, err := d.Message()
	if err != nil {
		return "", err
	}
	return m.String(), nil
}

// ValidateKey reports shifts outside [0, MaxShift]. Larger shifts would need
// more than one wraparound and are rejected rather than reduced modulo 128.
func ValidateKey(key []int) error {
	for i, k := range key {
		if k < 0 || k > MaxShift {
			return fmt.Errorf("key value %d at %d outside [0, %d]: %w", k, i, MaxShift, ErrInvalidArgument)
		}
	}
	return nil
}

// DecodeLine shifts every byte of line back by the cyclic key.
// key must be non-empty unless line is empty.
func DecodeLine(line string, key []int) string {
	s := &strings.Builder{}
	s.Grow(len(line))

	k := 0
	for i := 0; i < len(line); i++ {
		c := int(line[i]) - key[k]
		if c < 0 {
			c += MaxShift
		}
		s.WriteByte(byte(c))

		k = (k + 1) % len(key)
	}
	return s.String()
}

// Decode is the single-call form of New, Decoder.Decode and Decoder.Message.
func Decode(msg *message.Message, key []int) (*message.Message, error) {
	d, err := New(msg, key)
	if err != nil {
		return nil, err
	}
	if err := d.Decode(); err != nil {
		return nil, err
	}
	return d.Message()
}
