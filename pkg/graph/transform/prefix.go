package transform

import (
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/Arch-Mind/frontend-sub001/pkg/graph"
)

// Temp roots used by ephemeral analysis checkouts. Each pattern consumes
// the temp root and the checkout directory directly beneath it.
var defaultTempRoots = []*regexp.Regexp{
	regexp.MustCompile(`^(?:/private)?/var/folders/[^/]+/[^/]+/T/[^/]+/`),
	regexp.MustCompile(`^/tmp/[^/]+/`),
	regexp.MustCompile(`^/var/tmp/[^/]+/`),
	regexp.MustCompile(`^(?i:[a-z]:/Users/[^/]+/AppData/Local/Temp)/[^/]+/`),
}

// PathStripper rewrites raw paths into canonical repository-relative form.
type PathStripper struct {
	prefixes []string
	roots    []*regexp.Regexp
}

// NewPathStripper builds a stripper for the given explicit prefixes. When
// useTempRoots is set, well-known OS temp roots (plus os.TempDir) are
// stripped as a fallback for paths no explicit prefix matched.
func NewPathStripper(prefixes []string, useTempRoots bool) *PathStripper {
	s := &PathStripper{}
	for _, p := range prefixes {
		p = graph.SlashPath(p)
		if p == "" {
			continue
		}
		s.prefixes = append(s.prefixes, strings.TrimSuffix(p, "/")+"/")
	}
	// Longest prefix wins.
	sort.SliceStable(s.prefixes, func(i, j int) bool {
		return len(s.prefixes[i]) > len(s.prefixes[j])
	})
	if useTempRoots {
		s.roots = append(s.roots, defaultTempRoots...)
		if tmp := graph.SlashPath(os.TempDir()); tmp != "" && tmp != "/tmp" {
			s.roots = append(s.roots, regexp.MustCompile(`^`+regexp.QuoteMeta(tmp)+`/[^/]+/`))
		}
	}
	return s
}

// Strip returns p with forward slashes and any known prefix removed.
func (s *PathStripper) Strip(p string) string {
	p = graph.SlashPath(p)
	if p == "" {
		return ""
	}
	for _, prefix := range s.prefixes {
		if strings.HasPrefix(p, prefix) {
			return strings.TrimPrefix(p, prefix)
		}
	}
	for _, re := range s.roots {
		if loc := re.FindStringIndex(p); loc != nil {
			return p[loc[1]:]
		}
	}
	return p
}
