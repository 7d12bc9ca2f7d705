// Package container implements East's sorted Set and Dict (spec §3.1,
// §4.C): mutable, key-ordered containers backed by
// github.com/hashicorp/go-immutable-radix/v2, a persistent (copy-on-write)
// radix tree ordered by byte-key.
//
// Grounded on hashicorp-nomad's use of go-immutable-radix/go-memdb for a
// transactional, snapshot-friendly ordered store: a container here holds
// the tree's current root behind a value.Header (freeze + iteration-lock
// bookkeeping, see key insight in SPEC_FULL.md §4.C) and swaps the root on
// every mutation, so taking an iteration snapshot is just copying a
// pointer - the persistent tree does the hard concurrency-safety work,
// and Header only needs to guard East's own single-logical-mutator
// contract (spec §3.3), not the tree's internals.
package container

import (
	"math"

	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/value"
)

// Encode maps an immutable East value (spec §3.1.1 invariant 1: only
// values of this shape may be Set/Dict keys) to an order-preserving byte
// string: Encode(a) < Encode(b) (as byte slices) iff value.Less(a, b).
//
// UTF-8 already preserves Unicode codepoint order byte-for-byte, so
// strings need no per-codepoint transform, only the usual 0x00-escape +
// terminator scheme (grounded on the key-encoding approach
// other_examples' dolthub-dolt value_decoder.go uses for its own ordered,
// typed key bytes) so that no encoded key is a prefix of another's.
func Encode(v value.Value) ([]byte, error) {
	var out []byte
	if err := encodeInto(&out, v); err != nil {
		return nil, err
	}
	return out, nil
}

const (
	tagNull = iota
	tagFalse
	tagTrue
	tagInt
	tagFloat
	tagString
	tagDateTime
	tagBlob
	tagStruct
	tagVariant
)

func encodeInto(out *[]byte, v value.Value) error {
	switch tv := v.(type) {
	case value.Null:
		*out = append(*out, tagNull)
	case value.Bool:
		if tv {
			*out = append(*out, tagTrue)
		} else {
			*out = append(*out, tagFalse)
		}
	case value.Int:
		*out = append(*out, tagInt)
		encodeUint64(out, uint64(tv)^signBit64)
	case value.Float:
		*out = append(*out, tagFloat)
		encodeUint64(out, encodeFloatBits(float64(tv)))
	case value.Str:
		*out = append(*out, tagString)
		encodeEscapedBytes(out, []byte(tv))
	case value.DateTime:
		*out = append(*out, tagDateTime)
		encodeUint64(out, uint64(tv)^signBit64)
	case value.Blob:
		*out = append(*out, tagBlob)
		encodeEscapedBytes(out, []byte(tv))
	case value.StructVal:
		*out = append(*out, tagStruct)
		for _, f := range tv.Fields {
			if err := encodeInto(out, f); err != nil {
				return err
			}
		}
	case value.VariantVal:
		*out = append(*out, tagVariant)
		encodeEscapedBytes(out, []byte(tv.Case))
		return encodeInto(out, tv.Payload)
	default:
		return errs.New(errs.TypeMismatch, "value of type %T is not a valid immutable key", v)
	}
	return nil
}

const signBit64 = uint64(1) << 63

func encodeUint64(out *[]byte, u uint64) {
	var b [8]byte
	for i := 7; i >= 0; i-- {
		b[i] = byte(u)
		u >>= 8
	}
	*out = append(*out, b[:]...)
}

// encodeFloatBits maps IEEE-754 bits to an order-preserving uint64: for
// positive numbers, flip the sign bit; for negative numbers, flip every
// bit. NaN is canonicalized to a single representative first, so every
// NaN key collides (spec §3.2: "NaN is treated equal to NaN"), and that
// representative's transformed bits sort above +Inf's (spec: "greater
// than every other float").
func encodeFloatBits(f float64) uint64 {
	if math.IsNaN(f) {
		f = math.NaN()
	}
	if f == 0 {
		// -0.0 == +0.0 in the value order; canonicalize so both zeros
		// land on the same key.
		f = 0
	}
	bits := math.Float64bits(f)
	if bits&signBit64 != 0 {
		return ^bits
	}
	return bits | signBit64
}

// encodeEscapedBytes appends an escaped, NUL-terminated copy of b so that
// concatenated multi-field keys remain prefix-free and order-preserving:
// 0x00 bytes are escaped as 0x00 0xFF, and the field ends with 0x00 0x00.
func encodeEscapedBytes(out *[]byte, b []byte) {
	for _, c := range b {
		if c == 0x00 {
			*out = append(*out, 0x00, 0xFF)
		} else {
			*out = append(*out, c)
		}
	}
	*out = append(*out, 0x00, 0x00)
}
