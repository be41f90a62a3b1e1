package sqlsplit

import (
	"errors"
	"iter"
	"regexp"
	"strings"
)

// ErrSplit is reported when the pattern engine produced a match without a
// statement capture. This is an engine fault, not a per-input condition, and
// is effectively unreachable in normal operation.
var ErrSplit = errors.New("failed to split queries")

// statementRe scans one statement per match: a skip-run of whitespace, `--`
// comment lines and `!` control-directive lines, then body text up to a bare
// semicolon. Single- and double-quoted runs are consumed as units so a
// semicolon inside a literal never terminates a statement, and a backslash
// escapes the following character inside a literal.
var statementRe = regexp.MustCompile(`(?:[\t \n]|--.*\n|!.*\n)*((?:[^;"']+(?:'(?:[^'\\]*(?:\\.)?)*')?(?:"(?:[^"\\]*(?:\\.)?)*")?)*;) *`)

// Statements lazily yields the trimmed, semicolon-terminated statements of a
// batch. Splitting is stateless: the sequence may be ranged over repeatedly
// and restarts from scratch each time. Trailing content with no further
// semicolon is dropped.
func Statements(batch string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		rest := batch
		for rest != "" {
			loc := statementRe.FindStringSubmatchIndex(rest)
			if loc == nil {
				return
			}
			if loc[2] < 0 {
				yield("", ErrSplit)
				return
			}
			if !yield(strings.TrimSpace(rest[loc[2]:loc[3]]), nil) {
				return
			}
			rest = rest[loc[1]:]
		}
	}
}

// Split eagerly collects the statements of a batch.
func Split(batch string) ([]string, error) {
	var statements []string
	for stmt, err := range Statements(batch) {
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}
