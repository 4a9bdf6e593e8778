// Package canon produces canonical JSON and domain-separated digests of
// campaign data.
//
// The journal records a digest of the campaign after every committed turn.
// Replay re-simulates the campaign from its seed and compares digests, so
// the encoding must not depend on map iteration order, Unicode
// normalization form, or encoder quirks.
//
// Canonical form follows RFC 8785:
//   - object keys sorted by UTF-16 code units
//   - strings NFC normalized, with only quote, backslash and control
//     characters escaped
//   - numbers in shortest round-trip form, exponent only outside
//     [1e-6, 1e21)
//   - no insignificant whitespace
package canon
