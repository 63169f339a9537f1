package wasmclass

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"
)

// signature is an interface declaration for one export.
type signature struct {
	params  []wit.Type
	results []wit.Type
}

var funcPattern = regexp.MustCompile(`(?:export\s+)?([a-zA-Z_][a-zA-Z0-9_-]*)\s*:\s*func\s*\(([^)]*)\)(?:\s*->\s*([^;]+))?`)

// parseInterface extracts function declarations from WIT text. Names are
// keyed by their export spelling: get-count declares get_count.
//
//	get-count: func() -> u32;
//	set-enabled: func(on: bool);
func parseInterface(text string) (map[string]*signature, error) {
	funcs := make(map[string]*signature)

	for _, match := range funcPattern.FindAllStringSubmatch(text, -1) {
		name := strings.ReplaceAll(match[1], "-", "_")
		sig := &signature{}

		for _, p := range splitParams(match[2]) {
			typ := p
			if idx := strings.LastIndex(p, ":"); idx != -1 {
				typ = p[idx+1:]
			}
			t, err := wit.ParseType(strings.TrimSpace(typ))
			if err != nil {
				return nil, fmt.Errorf("%s: parse param type %q: %w", name, typ, err)
			}
			sig.params = append(sig.params, t)
		}

		result := strings.TrimSpace(match[3])
		if result != "" && result != "()" {
			parts := []string{result}
			if strings.HasPrefix(result, "(") && strings.HasSuffix(result, ")") {
				parts = splitParams(result[1 : len(result)-1])
			}
			for _, part := range parts {
				t, err := wit.ParseType(strings.TrimSpace(part))
				if err != nil {
					return nil, fmt.Errorf("%s: parse result type %q: %w", name, part, err)
				}
				sig.results = append(sig.results, t)
			}
		}
		funcs[name] = sig
	}

	if len(funcs) == 0 {
		return nil, fmt.Errorf("no functions found in interface")
	}
	return funcs, nil
}

// splitParams splits a parameter list, handling nested parens.
func splitParams(s string) []string {
	var result []string
	var current strings.Builder
	depth := 0

	for _, ch := range s {
		switch ch {
		case '(', '<':
			depth++
		case ')', '>':
			depth--
		case ',':
			if depth == 0 {
				if str := strings.TrimSpace(current.String()); str != "" {
					result = append(result, str)
				}
				current.Reset()
				continue
			}
		}
		current.WriteRune(ch)
	}

	if str := strings.TrimSpace(current.String()); str != "" {
		result = append(result, str)
	}
	return result
}

// scalars maps declared types onto core types, or reports false when a
// declared type has no scalar form or disagrees with the core signature.
func scalars(declared []wit.Type, core []api.ValueType) ([]scalar, bool) {
	if len(declared) != len(core) {
		return nil, false
	}
	out := make([]scalar, len(declared))
	for i, t := range declared {
		s, ok := witScalar(t)
		if !ok || s.core != core[i] {
			return nil, false
		}
		out[i] = s
	}
	return out, true
}

func coreScalars(core []api.ValueType) ([]scalar, bool) {
	out := make([]scalar, len(core))
	for i, t := range core {
		s, ok := coreScalar(t)
		if !ok {
			return nil, false
		}
		out[i] = s
	}
	return out, true
}
