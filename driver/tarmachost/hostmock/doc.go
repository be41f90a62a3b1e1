/*
Package hostmock provides a scripted stand-in for the waPC host function, so
driver behaviour can be tested without a host runtime.

The mock validates the namespace, capability, and function of each call,
optionally validates the payload, and returns per-function scripted
responses.
*/
package hostmock
