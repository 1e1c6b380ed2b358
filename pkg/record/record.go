// Package record implements the fixed-width, schema-directed tuple codec:
// rows are encoded back-to-back with no per-field tag, so decoding a row
// always requires the attribute type list that produced it.
package record

import (
	"encoding/binary"
	"fmt"

	"nanodb/pkg/types"
)

// Error reports a codec failure: a row whose byte layout doesn't match the
// schema used to decode it.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return fmt.Sprintf("record: %s", e.Reason) }

func errf(format string, args ...any) *Error {
	return &Error{Reason: fmt.Sprintf(format, args...)}
}

// Encode serializes values in the given order into a flat byte slice.
// Integer -> 4-byte big-endian two's complement.
// Boolean -> 1 byte, 0x00 or 0x01.
// Text    -> 4-byte big-endian length prefix followed by raw UTF-8 bytes.
func Encode(values []types.Value) []byte {
	size := 0
	for _, v := range values {
		switch v.Type() {
		case types.Integer:
			size += 4
		case types.Boolean:
			size += 1
		case types.Text:
			size += 4 + len(v.Str())
		}
	}

	buf := make([]byte, size)
	i := 0
	for _, v := range values {
		switch v.Type() {
		case types.Integer:
			binary.BigEndian.PutUint32(buf[i:i+4], uint32(v.Int()))
			i += 4
		case types.Boolean:
			if v.Bool() {
				buf[i] = 0x01
			} else {
				buf[i] = 0x00
			}
			i++
		case types.Text:
			s := v.Str()
			binary.BigEndian.PutUint32(buf[i:i+4], uint32(len(s)))
			i += 4
			copy(buf[i:], s)
			i += len(s)
		}
	}
	return buf
}

// Decode reads values from buf positionally according to schema, one
// value per entry of schema in order. It is an error for any unread bytes
// to remain after the last attribute is decoded, and an error for buf to
// run out before the schema is satisfied.
func Decode(buf []byte, schema []types.ValueType) ([]types.Value, error) {
	values := make([]types.Value, 0, len(schema))
	i := 0
	for _, t := range schema {
		switch t {
		case types.Integer:
			if i+4 > len(buf) {
				return nil, errf("unexpected end of row decoding INTEGER field")
			}
			values = append(values, types.NewInteger(int32(binary.BigEndian.Uint32(buf[i:i+4]))))
			i += 4
		case types.Boolean:
			if i+1 > len(buf) {
				return nil, errf("unexpected end of row decoding BOOLEAN field")
			}
			values = append(values, types.NewBoolean(buf[i] != 0x00))
			i++
		case types.Text:
			if i+4 > len(buf) {
				return nil, errf("unexpected end of row decoding TEXT length prefix")
			}
			n := int(binary.BigEndian.Uint32(buf[i : i+4]))
			i += 4
			if i+n > len(buf) {
				return nil, errf("unexpected end of row decoding TEXT field")
			}
			values = append(values, types.NewText(string(buf[i:i+n])))
			i += n
		default:
			return nil, errf("unknown attribute type in schema")
		}
	}
	if i != len(buf) {
		return nil, errf("decoder invariant violation: %d unread bytes remain after decoding row", len(buf)-i)
	}
	return values, nil
}

// Concat byte-concatenates two already-encoded rows, as required when a
// join emits a combined left+right tuple.
func Concat(left, right []byte) []byte {
	out := make([]byte, 0, len(left)+len(right))
	out = append(out, left...)
	out = append(out, right...)
	return out
}
