/*
Package driver defines the low-level, handle-based driver surface consumed by
the rowset package.

The interfaces mirror a C-style connectivity API: a Connector yields
connections, a connection yields statement handles, and an executed statement
exposes its result set through describe-column and fetch calls. Column data is
read through a Cursor with one typed get-data call per column, in ascending
column order, once per fetched row. Re-reading or skipping backwards is not
supported by the underlying handles.

Implementations live in the subpackages: drivermock (scripted, for tests),
sqlbridge (database/sql adapter) and tarmachost (Tarmac waPC sql capability).
*/
package driver
