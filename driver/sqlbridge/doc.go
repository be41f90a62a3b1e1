/*
Package sqlbridge implements the rowset driver interfaces on top of
database/sql, so any registered database/sql driver (mysql, postgres, pgx,
sqlite, ...) can serve as the connectivity layer.

Column wire types are derived from the driver-reported database type names.
Names without a mapping fall back to VARCHAR and are surfaced as strings, so
the bridge never feeds the row decoder a type code it cannot dispatch on.
Statements that produce zero result columns are reported as the no-data
state.
*/
package sqlbridge
