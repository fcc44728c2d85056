// Package shotcode converts between shot numbers ("12", "12A") and their
// canonical codes ("SH012A").
//
// An alternate take of a shot carries a single trailing letter. The letters
// run A through Y; there are no two-letter alternates.
package shotcode
