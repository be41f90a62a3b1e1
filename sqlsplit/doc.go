/*
Package sqlsplit separates a batch of semicolon-terminated SQL statements.

The splitter is a single-pass pattern scan, not a SQL parser: it only detects
statement boundaries safely in the presence of quoted string literals (with
backslash escapes), `--` line comments and `!` interpreter control
directives. It does not validate SQL syntax.
*/
package sqlsplit
