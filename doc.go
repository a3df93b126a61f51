// SPDX-License-Identifier: GPL-2.0-only

// Package hyperion is a structured event log for resource-constrained
// controllers: registered log entries are rendered either as
// human-readable text or as a compact pipe-delimited wire form, fanned out
// to a bounded set of severity-filtered writers, and — via
// PersistentWriter/Reader — compressed through an LZSS dictionary into a
// flash-backed ring log and back out again.
//
// A Logger owns the registry and writer table and serializes every
// operation behind a single mutex, mirroring the original firmware's one
// global log mutex held across formatting, dispatch, and storage I/O.
package hyperion
