// Package hse implements the wire format of the YASKAWA High-Speed Ethernet
// (HSE) server protocol spoken by FS100-generation robot controllers.
//
// Every HSE datagram starts with a fixed 32-byte header: a 4-byte "YERC"
// identifier, the constant header size, the payload size, a processing
// division selecting the robot-control or file-control channel, an ack flag,
// a one-byte request id echoed by the controller, and a block number whose
// high bit marks the final block of a chunked transfer. Requests carry a
// command sub-header (command, instance, attribute, service); answers carry
// a status sub-header (service, status, added status).
//
// The package is purely a codec: it transforms between packet structs and
// bytes, validating framing on decode, and performs no I/O. Transport and
// command semantics live in package fs100.
package hse
