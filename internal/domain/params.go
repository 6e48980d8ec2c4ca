package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strings"
)

// ParamReader extracts typed values from an event's parameter list while
// accumulating field errors, so a single pass reports every missing or
// malformed parameter at once.
type ParamReader struct {
	event  *ContractEvent
	fields []FieldError
}

// NewParamReader creates a reader over the given event's parameters.
func NewParamReader(event *ContractEvent) *ParamReader {
	return &ParamReader{event: event}
}

func (r *ParamReader) fail(field, reason string) {
	r.fields = append(r.fields, FieldError{Field: field, Reason: reason})
}

// String returns the named parameter as a non-empty string.
func (r *ParamReader) String(name string) string {
	v, ok := r.event.Param(name)
	if !ok {
		r.fail(name, "required parameter is missing")
		return ""
	}
	s, ok := v.(string)
	if !ok || s == "" {
		r.fail(name, "must be a non-empty string")
		return ""
	}
	return s
}

// Address returns the named parameter as a normalized hex address.
func (r *ParamReader) Address(name string) string {
	v, ok := r.event.Param(name)
	if !ok {
		r.fail(name, "required parameter is missing")
		return ""
	}
	s, ok := v.(string)
	if !ok || !ValidAddress(s) {
		r.fail(name, "must be a hex address")
		return ""
	}
	return NormalizeAddress(s)
}

// BigInt returns the named parameter as a big integer. Decimal strings,
// 0x-prefixed hex strings, json.Number, and whole floats are accepted.
func (r *ParamReader) BigInt(name string) *big.Int {
	v, ok := r.event.Param(name)
	if !ok {
		r.fail(name, "required parameter is missing")
		return nil
	}
	n, err := toBigInt(v)
	if err != nil {
		r.fail(name, err.Error())
		return nil
	}
	return n
}

// UnsignedBigInt returns the named parameter as a non-negative big integer.
func (r *ParamReader) UnsignedBigInt(name string) *big.Int {
	n := r.BigInt(name)
	if n != nil && n.Sign() < 0 {
		r.fail(name, "must not be negative")
		return nil
	}
	return n
}

// Uint64 returns the named parameter as a uint64.
func (r *ParamReader) Uint64(name string) uint64 {
	n := r.BigInt(name)
	if n == nil {
		return 0
	}
	if n.Sign() < 0 || !n.IsUint64() {
		r.fail(name, "must be an unsigned 64-bit integer")
		return 0
	}
	return n.Uint64()
}

// Int returns the named parameter as an int.
func (r *ParamReader) Int(name string) int {
	n := r.BigInt(name)
	if n == nil {
		return 0
	}
	if !n.IsInt64() || n.Int64() > math.MaxInt32 || n.Int64() < math.MinInt32 {
		r.fail(name, "must be an integer")
		return 0
	}
	return int(n.Int64())
}

// Block returns the event's block metadata, recording a field error when the
// watcher omitted it.
func (r *ParamReader) Block() *BlockMeta {
	if r.event.Block == nil {
		r.fail("block", "block metadata is missing")
		return nil
	}
	return r.event.Block
}

// Err returns a ValidationError enumerating every recorded field error, or
// nil when all extractions succeeded.
func (r *ParamReader) Err() error {
	if len(r.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: r.fields}
}

func toBigInt(v any) (*big.Int, error) {
	switch t := v.(type) {
	case string:
		base := 10
		s := t
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			base = 16
			s = s[2:]
		}
		n, ok := new(big.Int).SetString(s, base)
		if !ok {
			return nil, fmt.Errorf("must be an integer")
		}
		return n, nil
	case json.Number:
		n, ok := new(big.Int).SetString(t.String(), 10)
		if !ok {
			return nil, fmt.Errorf("must be an integer")
		}
		return n, nil
	case float64:
		if t != math.Trunc(t) {
			return nil, fmt.Errorf("must be a whole number")
		}
		n, _ := new(big.Float).SetFloat64(t).Int(nil)
		return n, nil
	case int:
		return big.NewInt(int64(t)), nil
	case int64:
		return big.NewInt(t), nil
	case uint64:
		return new(big.Int).SetUint64(t), nil
	default:
		return nil, fmt.Errorf("must be an integer")
	}
}
