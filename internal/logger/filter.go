package logger

import (
	"fmt"
	"strings"
)

// Filter resolves a minimum Level for a named module, e.g. "parser" or
// "codegen/llvmir", given a spec string like "parser=debug,codegen=trace,*=warn".
// The wildcard "*" entry sets the default for modules with no explicit
// entry; absent a wildcard the default is LevelInfo.
type Filter struct {
	exact    map[string]Level
	fallback Level
}

// ParseFilter parses a comma-separated module=level filter spec.
func ParseFilter(spec string) (*Filter, error) {
	f := &Filter{exact: map[string]Level{}, fallback: LevelInfo}
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return f, nil
	}
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		eq := strings.IndexByte(part, '=')
		if eq < 0 {
			return nil, fmt.Errorf("logger: invalid filter entry %q (expected module=level)", part)
		}
		mod := strings.TrimSpace(part[:eq])
		lvl, err := ParseLevel(part[eq+1:])
		if err != nil {
			return nil, fmt.Errorf("logger: filter entry %q: %w", part, err)
		}
		if mod == "*" {
			f.fallback = lvl
		} else {
			f.exact[mod] = lvl
		}
	}
	return f, nil
}

// Allows reports whether a message at lvl should be emitted for module.
// Module matching first tries an exact name, then successively shorter
// "/"-separated prefixes (so a filter on "codegen" also governs
// "codegen/llvmir"), then falls back to the wildcard default.
func (f *Filter) Allows(module string, lvl Level) bool {
	return lvl >= f.Threshold(module)
}

// Threshold returns the minimum level that passes for module.
func (f *Filter) Threshold(module string) Level {
	if f == nil {
		return LevelInfo
	}
	m := module
	for {
		if lvl, ok := f.exact[m]; ok {
			return lvl
		}
		idx := strings.LastIndexByte(m, '/')
		if idx < 0 {
			break
		}
		m = m[:idx]
	}
	return f.fallback
}
