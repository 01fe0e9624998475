package domain

import (
	"strconv"
	"strings"
)

const (
	MinPriority = 1
	MaxPriority = 4
	MinLoad     = 1
	MaxLoad     = 5

	defaultLoad = 3
)

// ParsePriority normalizes task priority input. It accepts numeric 1-4
// (1 = highest) and label forms like "P1" or "p2". Anything unparseable
// resolves to the conservative minimum priority, never an error.
func ParsePriority(raw string) int {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "P"), "p")
	n, err := strconv.Atoi(s)
	if err != nil {
		return MaxPriority
	}
	return ClampPriority(n)
}

// ParseCognitiveLoad normalizes cognitive load input. It accepts numeric
// 1-5 and "n/5" strings; unparseable input resolves to the medium default.
func ParseCognitiveLoad(raw string) int {
	s := strings.TrimSpace(raw)
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return defaultLoad
	}
	return ClampLoad(n)
}

// ClampPriority forces a numeric priority into the 1-4 range.
func ClampPriority(p int) int {
	if p < MinPriority {
		return MinPriority
	}
	if p > MaxPriority {
		return MaxPriority
	}
	return p
}

// ClampLoad forces a numeric cognitive load into the 1-5 range.
func ClampLoad(l int) int {
	if l < MinLoad {
		return MinLoad
	}
	if l > MaxLoad {
		return MaxLoad
	}
	return l
}

// ClampScale forces an energy or focus slider value into the 1-5 range.
func ClampScale(v int) int {
	return ClampLoad(v)
}
