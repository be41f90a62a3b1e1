package sqlsplit

import (
	"testing"
)

func TestSplit(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		batch string
		want  []string
	}{
		{
			name: "LeadingCommentsAndBlankLines",
			batch: "-- Foo\n---\nCREATE DATABASE IF NOT EXISTS daily_reports;\n" +
				"USE daily_reports;\n\nSELECT *;",
			want: []string{
				"CREATE DATABASE IF NOT EXISTS daily_reports;",
				"USE daily_reports;",
				"SELECT *;",
			},
		},
		{
			name:  "TrailingWhitespace",
			batch: "USE daily_reports;\nSELECT *;\n\n",
			want:  []string{"USE daily_reports;", "SELECT *;"},
		},
		{
			name:  "Simple",
			batch: "SELECT 42;\nSELECT 24;\nSELECT 'foo';",
			want:  []string{"SELECT 42;", "SELECT 24;", "SELECT 'foo';"},
		},
		{
			name:  "SemicolonInsideLiteral",
			batch: "SELECT 'foo; bar';\nSELECT 1;",
			want:  []string{"SELECT 'foo; bar';", "SELECT 1;"},
		},
		{
			name:  "SemicolonInsideMixedQuotedRuns",
			batch: `foo "bar" baz "quix; but" foo "bar" baz "quix; but" fsad; foo "bar" baz "quix; but" foo "bar" baz "quix; but" fsad; select foo; foo "bar" baz 'quix; but' foo "bar" baz "quix; but" fsad; foo "bar" baz "quix; but" foo "bar" baz "quix; but" fsad; select foo;`,
			want: []string{
				`foo "bar" baz "quix; but" foo "bar" baz "quix; but" fsad;`,
				`foo "bar" baz "quix; but" foo "bar" baz "quix; but" fsad;`,
				`select foo;`,
				`foo "bar" baz 'quix; but' foo "bar" baz "quix; but" fsad;`,
				`foo "bar" baz "quix; but" foo "bar" baz "quix; but" fsad;`,
				`select foo;`,
			},
		},
		{
			name:  "EscapedQuote",
			batch: "SELECT 'foo; b\\'ar';\nSELECT 1;",
			want:  []string{`SELECT 'foo; b\'ar';`, "SELECT 1;"},
		},
		{
			name:  "EscapedQuoteInBothStatements",
			batch: "SELECT 'foo; b\\'ar';\nSELECT 'foo\\'bar';",
			want:  []string{`SELECT 'foo; b\'ar';`, `SELECT 'foo\'bar';`},
		},
		{
			name:  "EscapedDoubleQuote",
			batch: `SELECT "foo; b\"ar";SELECT "foo\"bar";`,
			want:  []string{`SELECT "foo; b\"ar";`, `SELECT "foo\"bar";`},
		},
		{
			name:  "CommentLinesBetweenStatements",
			batch: "SELECT 1;\n-- SELECT x;\n---- SELECT x;\nSELECT 2;\nSELECT 3;",
			want:  []string{"SELECT 1;", "SELECT 2;", "SELECT 3;"},
		},
		{
			name: "CommentBlockBeforeStatementWithEscapes",
			batch: "-- add last_search_or_brochure_logentry_id\n" +
				"-- DISTRIBUTE BY analytics_record_id SORT BY analytics_record_id ASC;\n" +
				"-- check previous day for landing logentry detail\n" +
				`SELECT '1' LEFT JOIN source_wcc.domain d ON regexp_extract(d.domain, '.*\\.([^\.]+)$', 1) = c.domain AND d.snapshot_day = c.index;`,
			want: []string{
				`SELECT '1' LEFT JOIN source_wcc.domain d ON regexp_extract(d.domain, '.*\\.([^\.]+)$', 1) = c.domain AND d.snapshot_day = c.index;`,
			},
		},
		{
			name:  "ControlDirectiveLine",
			batch: "!outputformat vertical\nSELECT 1;\n-- SELECT x;\n---- SELECT x;\nSELECT 2;\nSELECT 3;",
			want:  []string{"SELECT 1;", "SELECT 2;", "SELECT 3;"},
		},
		{
			name:  "SurroundingWhitespace",
			batch: " \n  SELECT 1;\n  \nSELECT 2;\n \nSELECT 3;\n\n ",
			want:  []string{"SELECT 1;", "SELECT 2;", "SELECT 3;"},
		},
		{
			name:  "TrailingTabsAndSpaces",
			batch: "SELECT 1; \t \nSELECT 2; \n \nSELECT 3; ",
			want:  []string{"SELECT 1;", "SELECT 2;", "SELECT 3;"},
		},
		{
			name:  "TrailingComment",
			batch: "SELECT 1; \t \nSELECT 2; -- foo bar\n \nSELECT 3; ",
			want:  []string{"SELECT 1;", "SELECT 2;", "SELECT 3;"},
		},
		{
			name:  "DanglingContentDropped",
			batch: "SELECT 1;\nSELECT 2 WHERE",
			want:  []string{"SELECT 1;"},
		},
		{
			name:  "Empty",
			batch: "",
			want:  nil,
		},
		{
			name:  "NoSemicolon",
			batch: "SELECT 1",
			want:  nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Split(tc.batch)
			if err != nil {
				t.Fatalf("Split returned error: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %d statements %q, want %d %q", len(got), got, len(tc.want), tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("statement %d: got %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestStatements_Restartable(t *testing.T) {
	t.Parallel()

	seq := Statements("SELECT 1;\nSELECT 2;")
	for pass := 0; pass < 2; pass++ {
		var got []string
		for stmt, err := range seq {
			if err != nil {
				t.Fatalf("pass %d: unexpected error: %v", pass, err)
			}
			got = append(got, stmt)
		}
		if len(got) != 2 || got[0] != "SELECT 1;" || got[1] != "SELECT 2;" {
			t.Fatalf("pass %d: got %q", pass, got)
		}
	}
}

func TestStatements_EarlyStop(t *testing.T) {
	t.Parallel()

	var got []string
	for stmt := range Statements("SELECT 1;\nSELECT 2;\nSELECT 3;") {
		got = append(got, stmt)
		if len(got) == 2 {
			break
		}
	}
	if len(got) != 2 || got[0] != "SELECT 1;" || got[1] != "SELECT 2;" {
		t.Fatalf("got %q", got)
	}
}
