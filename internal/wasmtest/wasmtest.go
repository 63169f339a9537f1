// Package wasmtest assembles small WebAssembly binaries for tests.
package wasmtest

import "github.com/tetratelabs/wazero/api"

// Section IDs.
const (
	SectionType   byte = 1
	SectionImport byte = 2
	SectionFunc   byte = 3
	SectionMemory byte = 5
	SectionGlobal byte = 6
	SectionExport byte = 7
	SectionCode   byte = 10
	SectionData   byte = 11
)

// Export kinds.
const (
	ExportFunc   byte = 0x00
	ExportMemory byte = 0x02
)

var (
	I32 = api.ValueTypeI32
	F64 = api.ValueTypeF64
)

// ULEB encodes v as unsigned LEB128.
func ULEB(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

// Vec prefixes the concatenated items with their count.
func Vec(items ...[]byte) []byte {
	out := ULEB(uint32(len(items)))
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

func Name(s string) []byte {
	return append(ULEB(uint32(len(s))), s...)
}

func Section(id byte, payload []byte) []byte {
	return append(append([]byte{id}, ULEB(uint32(len(payload)))...), payload...)
}

func FuncType(params, results []api.ValueType) []byte {
	out := []byte{0x60}
	out = append(out, ULEB(uint32(len(params)))...)
	out = append(out, params...)
	out = append(out, ULEB(uint32(len(results)))...)
	return append(out, results...)
}

// Body encodes a function body without locals.
func Body(code ...byte) []byte {
	b := append([]byte{0x00}, code...)
	b = append(b, 0x0b)
	return append(ULEB(uint32(len(b))), b...)
}

func Export(name string, kind byte, idx uint32) []byte {
	return append(append(Name(name), kind), ULEB(idx)...)
}

// ImportFunc imports module.name with the given type index.
func ImportFunc(module, name string, typeIdx uint32) []byte {
	return append(append(append(Name(module), Name(name)...), 0x00), ULEB(typeIdx)...)
}

// Module joins the header and the given sections.
func Module(sections ...[]byte) []byte {
	mod := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	for _, s := range sections {
		mod = append(mod, s...)
	}
	return mod
}

// Counter builds a module with a per-instance counter global. host is
// the import module providing log(ptr, len).
//
//	import host.log(i32, i32)       func 0
//	add(i32, i32) i32               func 1
//	get_count() i32                 func 2
//	set_count(i32)                  func 3
//	double(f64) f64                 func 4
//	greet()                         func 5, logs "hello"
//	_hidden()                       func 6
//	pair() (i32, i32)               func 7
//	get_limit() i32                 func 8, no setter
//	is_even(i32) i32                func 9
func Counter(host string) []byte {
	types := Vec(
		FuncType([]api.ValueType{I32, I32}, nil),
		FuncType([]api.ValueType{I32, I32}, []api.ValueType{I32}),
		FuncType(nil, []api.ValueType{I32}),
		FuncType([]api.ValueType{I32}, nil),
		FuncType([]api.ValueType{F64}, []api.ValueType{F64}),
		FuncType(nil, nil),
		FuncType(nil, []api.ValueType{I32, I32}),
		FuncType([]api.ValueType{I32}, []api.ValueType{I32}),
	)
	imports := Vec(ImportFunc(host, "log", 0))
	funcs := Vec([]byte{1}, []byte{2}, []byte{3}, []byte{4}, []byte{5}, []byte{5}, []byte{6}, []byte{2}, []byte{7})
	memory := Vec([]byte{0x00, 0x01})
	globals := Vec([]byte{0x7f, 0x01, 0x41, 0x00, 0x0b})
	exports := Vec(
		Export("memory", ExportMemory, 0),
		Export("add", ExportFunc, 1),
		Export("get_count", ExportFunc, 2),
		Export("set_count", ExportFunc, 3),
		Export("double", ExportFunc, 4),
		Export("greet", ExportFunc, 5),
		Export("_hidden", ExportFunc, 6),
		Export("pair", ExportFunc, 7),
		Export("get_limit", ExportFunc, 8),
		Export("is_even", ExportFunc, 9),
	)
	code := Vec(
		Body(0x20, 0x00, 0x20, 0x01, 0x6a),       // local.get 0, local.get 1, i32.add
		Body(0x23, 0x00),                         // global.get 0
		Body(0x20, 0x00, 0x24, 0x00),             // local.get 0, global.set 0
		Body(0x20, 0x00, 0x20, 0x00, 0xa0),       // local.get 0, local.get 0, f64.add
		Body(0x41, 0x00, 0x41, 0x05, 0x10, 0x00), // i32.const 0, i32.const 5, call 0
		Body(),
		Body(0x41, 0x01, 0x41, 0x02),
		Body(0x41, 0x0a),                         // i32.const 10
		Body(0x20, 0x00, 0x41, 0x01, 0x71, 0x45), // local.get 0, i32.const 1, i32.and, i32.eqz
	)
	data := Vec(append([]byte{0x00, 0x41, 0x00, 0x0b}, Name("hello")...))

	return Module(
		Section(SectionType, types),
		Section(SectionImport, imports),
		Section(SectionFunc, funcs),
		Section(SectionMemory, memory),
		Section(SectionGlobal, globals),
		Section(SectionExport, exports),
		Section(SectionCode, code),
		Section(SectionData, data),
	)
}
