// Package sequence turns the textual process mini-language into a flat,
// ordered list of instruction tokens. A sequence file contains one directive
// per line: either a loop marker (`loop<ID>_<REPEAT>` ... `loop<ID>_end`) or
// an opaque instruction forwarded verbatim to device dispatch. Loops may nest
// arbitrarily and are unrolled at compile time, so the runtime only ever walks
// a flat list.
package sequence
