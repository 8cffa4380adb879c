// Package framework contains the low-level implementation of test harness infrastructure
// that is not specific to bookings. The base package contains shared types such as Logger;
// other components are in the subpackages harness and ldtest.
//
// The general model is:
//
// 1. The test harness talks to the service under test over plain HTTP. It waits for the
// service to answer its readiness probe before any test runs, and every request it sends
// is logged to the debug logger of the test that made it.
//
// 2. There is a general notion of a test context which is similar to Go's testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// results: passed, failed, skipped, or an expected failure for a deviation that the test
// suite has chosen to tolerate.
//
// The domain-specific code that knows what is being tested is responsible for building
// request bodies, deciding what responses are acceptable, and providing a domain-specific
// test API on top of the test context.
package framework
