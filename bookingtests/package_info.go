// Package bookingtests contains the booking contract tests themselves and their supporting API:
// the lifecycle workflow that creates, changes and deletes one booking, and the policy table
// that decides how to treat the responses of the negative scenarios.
//
// Test harness infrastructure that is not specific to bookings, such as the test context and
// the HTTP transport, is in the lower-level framework packages.
package bookingtests
