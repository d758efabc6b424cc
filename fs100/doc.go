// Package fs100 implements a client for the High-Speed Ethernet server of
// YASKAWA FS100 robot controllers.
//
// A Client owns two UDP transport sessions against the controller, one per
// processing division: robot control (port 10040) carries commands such as
// moves, variable access, status and alarm queries; file control (port
// 10041) carries the chunked, acknowledged transfer protocol for pendant
// files.
//
// Each logical operation is a single method returning a typed result or a
// typed error from the hse package. Exchanges are correlated by the request
// id echoed in the answer header; at most one exchange is in flight per
// session, and read-style exchanges are transparently retried on timeout up
// to the configured bound.
//
// Motion commands are acknowledged when the controller accepts them, not
// when motion completes. Callers needing completion must poll
// ReadExecutingJobInfo or GetStatus.
package fs100
