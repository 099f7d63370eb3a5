package common

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Matcher は複数のglobパターンのいずれかに一致するかを判定する
type Matcher struct {
	globs []glob.Glob
}

// NewMatcher はパターン群をコンパイルする
// ワイルドカードを含まないパターンは部分一致として扱う
func NewMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{globs: make([]glob.Glob, 0, len(patterns))}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if !strings.ContainsAny(p, "*?[{") {
			p = "*" + p + "*"
		}
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("無効なパターン %q: %w", p, err)
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

// Empty はパターンが1つも無いかを返す
func (m *Matcher) Empty() bool {
	return len(m.globs) == 0
}

// Match はnameがいずれかのパターンに一致するかを返す
func (m *Matcher) Match(name string) bool {
	for _, g := range m.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
