// Package filter decides inclusion of a table name against a layered
// exclusion policy: exact matches, prefixes, wildcards, and regular
// expressions, each falling back to a built-in default when the operator
// supplies no override for that category.
package filter

import (
	"regexp"
	"strings"
)

// Config carries operator-supplied exclusion lists. An empty slice in any
// field means "use the built-in default for this category", not "exclude
// nothing".
type Config struct {
	ExactMatches        []string
	Prefixes            []string
	Wildcards           []string
	Regexes             []string
	ExcludeEmptyTables  bool
}

// Filter is immutable after construction and safe for concurrent use.
type Filter struct {
	exact              map[string]struct{}
	prefixes           []string
	wildcards          []*regexp.Regexp
	regexes            []*regexp.Regexp
	excludeEmptyTables bool
}

func defaultExactMatches() []string {
	return []string{"sysdiagrams", "dtproperties", "sysconstraints", "syssegments"}
}

func defaultPrefixes() []string {
	return []string{"sys", "INFORMATION_SCHEMA", "__", "msreplication", "spt_"}
}

func defaultWildcards() []string {
	return []string{
		"*_backup", "*_bk", "*_history", "*_archive", "*_temp", "*_staging",
		"*_audit", "*_log", "tmp_*", "temp_*", "staging_*", "archive_*", "bak_*",
	}
}

func defaultRegexes() []string {
	return []string{`^\$.*`, `.*_\d{8}$`, `.*_\d{8}_\d{6}$`}
}

// New builds a Filter from cfg, substituting built-in defaults for any
// empty category.
func New(cfg Config) *Filter {
	exactList := cfg.ExactMatches
	if len(exactList) == 0 {
		exactList = defaultExactMatches()
	}
	exact := make(map[string]struct{}, len(exactList))
	for _, name := range exactList {
		exact[name] = struct{}{}
	}

	prefixes := cfg.Prefixes
	if len(prefixes) == 0 {
		prefixes = defaultPrefixes()
	}

	wildcardPatterns := cfg.Wildcards
	if len(wildcardPatterns) == 0 {
		wildcardPatterns = defaultWildcards()
	}
	wildcards := make([]*regexp.Regexp, 0, len(wildcardPatterns))
	for _, p := range wildcardPatterns {
		wildcards = append(wildcards, regexp.MustCompile("^"+compileWildcard(p)+"$"))
	}

	regexPatterns := cfg.Regexes
	if len(regexPatterns) == 0 {
		regexPatterns = defaultRegexes()
	}
	regexes := make([]*regexp.Regexp, 0, len(regexPatterns))
	for _, p := range regexPatterns {
		if re, err := regexp.Compile(p); err == nil {
			regexes = append(regexes, re)
		}
	}

	return &Filter{
		exact:              exact,
		prefixes:           prefixes,
		wildcards:          wildcards,
		regexes:            regexes,
		excludeEmptyTables: cfg.ExcludeEmptyTables,
	}
}

// compileWildcard turns a glob pattern using '*' (any run) and '?' (one
// character) into an anchored regex body.
func compileWildcard(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}

// ShouldExclude evaluates the exclusion categories in increasing order of
// cost; the first match wins. estimatedRowCount is only consulted when
// ExcludeEmptyTables is set.
func (f *Filter) ShouldExclude(tableName string, estimatedRowCount int64) bool {
	if strings.TrimSpace(tableName) == "" {
		return true
	}

	if _, ok := f.exact[tableName]; ok {
		return true
	}

	for _, p := range f.prefixes {
		if strings.HasPrefix(tableName, p) {
			return true
		}
	}

	for _, re := range f.wildcards {
		if re.MatchString(tableName) {
			return true
		}
	}

	for _, re := range f.regexes {
		if re.MatchString(tableName) {
			return true
		}
	}

	if f.excludeEmptyTables && estimatedRowCount == 0 {
		return true
	}

	return false
}
