package wasmclass

import (
	"fmt"
	"math"

	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/starbind/variant"
)

// scalar is the mapping of one core wasm value onto a variant.
type scalar struct {
	min, max int64
	core     api.ValueType
	typ      variant.Type
}

func (s scalar) unsigned() bool { return s.typ == variant.Int && s.min == 0 }

// coreScalar is the default mapping of a core value type.
func coreScalar(t api.ValueType) (scalar, bool) {
	switch t {
	case api.ValueTypeI32:
		return scalar{core: t, typ: variant.Int, min: math.MinInt32, max: math.MaxInt32}, true
	case api.ValueTypeI64:
		return scalar{core: t, typ: variant.Int, min: math.MinInt64, max: math.MaxInt64}, true
	case api.ValueTypeF32, api.ValueTypeF64:
		return scalar{core: t, typ: variant.Float}, true
	}
	return scalar{}, false
}

// witScalar maps a WIT primitive onto its core representation.
func witScalar(t wit.Type) (scalar, bool) {
	i32, i64 := api.ValueTypeI32, api.ValueTypeI64
	switch t.(type) {
	case wit.Bool:
		return scalar{core: i32, typ: variant.Bool}, true
	case wit.S8:
		return scalar{core: i32, typ: variant.Int, min: math.MinInt8, max: math.MaxInt8}, true
	case wit.U8:
		return scalar{core: i32, typ: variant.Int, max: math.MaxUint8}, true
	case wit.S16:
		return scalar{core: i32, typ: variant.Int, min: math.MinInt16, max: math.MaxInt16}, true
	case wit.U16:
		return scalar{core: i32, typ: variant.Int, max: math.MaxUint16}, true
	case wit.S32:
		return scalar{core: i32, typ: variant.Int, min: math.MinInt32, max: math.MaxInt32}, true
	case wit.U32:
		return scalar{core: i32, typ: variant.Int, max: math.MaxUint32}, true
	case wit.Char:
		return scalar{core: i32, typ: variant.Int, max: 0x10FFFF}, true
	case wit.S64:
		return scalar{core: i64, typ: variant.Int, min: math.MinInt64, max: math.MaxInt64}, true
	case wit.U64:
		// Values above MaxInt64 do not fit a variant int.
		return scalar{core: i64, typ: variant.Int, max: math.MaxInt64}, true
	case wit.F32:
		return scalar{core: api.ValueTypeF32, typ: variant.Float}, true
	case wit.F64:
		return scalar{core: api.ValueTypeF64, typ: variant.Float}, true
	}
	return scalar{}, false
}

func (s scalar) encode(v variant.Variant) (uint64, error) {
	switch s.typ {
	case variant.Bool:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	case variant.Int:
		i := v.Int()
		if i < s.min || i > s.max {
			return 0, fmt.Errorf("value %d out of range [%d, %d]", i, s.min, s.max)
		}
		if s.core == api.ValueTypeI32 {
			return api.EncodeU32(uint32(i)), nil
		}
		return api.EncodeI64(i), nil
	case variant.Float:
		if s.core == api.ValueTypeF32 {
			return api.EncodeF32(float32(v.Float())), nil
		}
		return api.EncodeF64(v.Float()), nil
	}
	return 0, fmt.Errorf("unsupported value type %s", s.typ)
}

func (s scalar) decode(raw uint64) variant.Variant {
	switch s.typ {
	case variant.Bool:
		return variant.FromBool(api.DecodeU32(raw) != 0)
	case variant.Int:
		switch {
		case s.core == api.ValueTypeI64:
			return variant.FromInt(int64(raw))
		case s.unsigned():
			return variant.FromInt(int64(api.DecodeU32(raw)))
		}
		return variant.FromInt(int64(api.DecodeI32(raw)))
	case variant.Float:
		if s.core == api.ValueTypeF32 {
			return variant.FromFloat(float64(api.DecodeF32(raw)))
		}
		return variant.FromFloat(api.DecodeF64(raw))
	}
	return variant.NewNil()
}

func (s scalar) String() string {
	return fmt.Sprintf("%s(%s)", s.typ, api.ValueTypeName(s.core))
}
