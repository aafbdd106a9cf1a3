// Package ir provides the scalar value types and canonical encoding shared by
// the querycmp packages.
//
// This package contains value definitions and encoders only. All other
// internal packages may import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Value is a sealed union (String, Int, Float, Bool); absence is a nil Value
//   - Text() is the textual rendering leaf comparisons use
//   - Canonical JSON follows RFC 8785 key ordering with NFC-normalized strings
//   - Fingerprints are SHA-256 with a versioned domain prefix
package ir
