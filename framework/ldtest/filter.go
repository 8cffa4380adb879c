package ldtest

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Filter decides whether a test runs. It is only consulted for tests, never for groups, so it
// sees the full path of every test in the run.
type Filter func(TestID) bool

// RegexFilters selects tests by matching patterns against test paths. A pattern that matches a
// group selects every test in that group, so "^negative$" and "^negative/update" both work.
type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

func (r RegexFilters) AsFilter(id TestID) bool {
	paths := selfAndAncestors(id)
	if r.MustNotMatch.matchesAny(paths) {
		return false
	}
	return !r.MustMatch.IsDefined() || r.MustMatch.matchesAny(paths)
}

// selfAndAncestors returns "a", "a/b", "a/b/c" for the test "a/b/c".
func selfAndAncestors(id TestID) []string {
	paths := make([]string, 0, len(id.Path))
	for i := 1; i <= len(id.Path); i++ {
		paths = append(paths, TestID{Path: id.Path[:i]}.String())
	}
	return paths
}

// RegexList is a repeatable command-line flag holding regular expressions.
type RegexList struct {
	patterns []*regexp.Regexp
}

// Set compiles and adds a pattern; it is called once for each occurrence of the flag.
func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex %q: %w", value, err)
	}
	r.patterns = append(r.patterns, rx)
	return nil
}

// Type names the flag value in usage output.
func (r *RegexList) Type() string {
	return "regex"
}

func (r RegexList) String() string {
	quoted := make([]string, len(r.patterns))
	for i, p := range r.patterns {
		quoted[i] = fmt.Sprintf("%q", p.String())
	}
	return strings.Join(quoted, " or ")
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) > 0
}

func (r RegexList) matchesAny(paths []string) bool {
	for _, p := range r.patterns {
		for _, path := range paths {
			if p.MatchString(path) {
				return true
			}
		}
	}
	return false
}

// PrintFilterDescription tells the user which tests the filters leave out.
func PrintFilterDescription(out io.Writer, filters RegexFilters) {
	if !filters.MustMatch.IsDefined() && !filters.MustNotMatch.IsDefined() {
		return
	}
	fmt.Fprintln(out, "Some tests will be skipped based on the filter criteria for this test run:")
	if filters.MustMatch.IsDefined() {
		fmt.Fprintf(out, "  run only tests matching %s, or in a group matching it\n", filters.MustMatch)
	}
	if filters.MustNotMatch.IsDefined() {
		fmt.Fprintf(out, "  skip tests matching %s, or in a group matching it\n", filters.MustNotMatch)
	}
	fmt.Fprintln(out)
}
