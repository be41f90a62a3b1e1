/*
Package rowset turns a low-level, handle-based database connectivity API into
a safe, iterator-oriented interface producing dynamically-typed row values.

A DB is opened through a driver.Connector and issues statements either
directly or prepared. Executed statements are consumed through Rows, a
pull-based iterator that reads the column descriptors once, then decodes each
fetched row column-by-column into structpb dynamic values according to the
driver-reported wire types. Converters let callers swap the iteration item
type for their own strongly-typed records.

Statement batches are split with the sqlsplit package and executed in order
with QueryBatch. Driver implementations live under the driver subpackages.

All handles are synchronous and single-owner: a DB and everything derived
from it stay on the goroutine that created them. Use a Factory per goroutine
when a lazily-connected, retry-on-next-use connection is wanted.
*/
package rowset
