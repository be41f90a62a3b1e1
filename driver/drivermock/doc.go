/*
Package drivermock provides a scripted in-memory implementation of the
rowset driver interfaces for tests.

A Mock is configured with column descriptors and row data and records every
lifecycle call made against it. Each stage (connect, prepare, bind, execute,
fetch, get-data) can be made to fail with a configurable error so callers can
exercise failure paths without a real driver.
*/
package drivermock
