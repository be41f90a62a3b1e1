/*
Package tarmachost implements the rowset driver interfaces over the Tarmac
`sql` host capability.

Statements are serialized with the project protobufs and forwarded to the
host with waPC. The host executes them against its configured database and
returns either a JSON row payload (query path) or an exec summary (no-data
path). Because the capability is stateless, prepared statements are emulated
by storing the query text, and positional parameter binding is not supported.

Tests can inject custom host behaviour with Config.HostCall to exercise
failure paths without a real host.
*/
package tarmachost
