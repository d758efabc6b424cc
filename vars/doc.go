// Package vars provides the typed variable model of the HSE protocol.
//
// FS100 controllers expose ten addressable variable kinds: I/O signals,
// registers, byte (B), integer (I), double integer (D), real (R) and
// string (S) variables, plus robot, base, and external-axis positions.
// Each kind has a fixed wire width except strings, which occupy up to 16
// bytes.
//
// A Value is an immutable tagged union over these kinds. Constructors and
// Decode gate the declared kind against the actual byte width, so a
// mismatch is an error instead of a silent coercion.
package vars
