// SPDX-License-Identifier: GPL-2.0-only

package logline

import (
	"bytes"
	"fmt"
	"strings"
)

var badSpanPrefix = fmt.Sprintf("[0x%04X][L] ", InvalidID)

// isDecodable mirrors logger_decoder_is_entry_decodable, shifted by one
// position for the leading '\n' this wire format carries: a valid entry is
// "\n" + 4 hex digits + "|" + ... + "|" + "\n".
func isDecodable(entry []byte) bool {
	n := len(entry)
	return n >= 7 && entry[0] == '\n' && entry[5] == '|' &&
		entry[n-2] == '|' && entry[n-1] == '\n'
}

func parseID(entry []byte) uint16 {
	var id uint16
	for _, c := range entry[1:5] {
		id <<= 4
		switch {
		case c >= '0' && c <= '9':
			id |= uint16(c - '0')
		case c >= 'A' && c <= 'F':
			id |= uint16(c-'A') + 10
		case c >= 'a' && c <= 'f':
			id |= uint16(c-'a') + 10
		}
	}
	return id
}

func reverseSubstitute(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '!':
			b.WriteByte('|')
		case '\r':
			b.WriteByte('\n')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// splitParams splits a payload on '|' the way
// logger_decoder_get_length_of_next_parameter does: scanning for each
// separator in turn. A trailing '|' with nothing after it produces no
// extra empty element, since callers only ever consult as many params as
// the format has specifiers for.
func splitParams(payload []byte) []string {
	var params []string
	start := 0
	for i := 0; i < len(payload); i++ {
		if payload[i] == '|' {
			params = append(params, string(payload[start:i]))
			start = i + 1
		}
	}
	return params
}

// decodeFrame expands one already-validated "\nNNNN|...|\n" frame into its
// human-readable line. The reserved printf id has no registered format: its
// single payload field is echoed verbatim (already fully expanded and
// substituted at encode time, with no structure left to split or reverse).
func decodeFrame(reg *Registry, frame []byte) string {
	id := parseID(frame)
	payload := frame[6 : len(frame)-1]

	if id == PrintfID {
		body := payload
		if len(body) > 0 && body[len(body)-1] == '|' {
			body = body[:len(body)-1]
		}
		return fmt.Sprintf("[0x%04X] %s\n", id, body)
	}

	entry, ok := reg.Lookup(id)
	if !ok {
		return fmt.Sprintf("[0x%04X]this log entry has formatting errors|\n", id)
	}

	toks, err := tokenize(entry.Format)
	if err != nil {
		return fmt.Sprintf("[0x%04X]this log entry has formatting errors|\n", id)
	}

	params := splitParams(payload)
	var b strings.Builder
	fmt.Fprintf(&b, "[0x%04X] ", id)
	pi := 0
	for _, t := range toks {
		if !t.isSpecifier {
			b.WriteString(t.literal)
			continue
		}
		if pi < len(params) {
			b.WriteString(reverseSubstitute(params[pi]))
			pi++
		}
	}
	b.WriteByte('\n')
	return b.String()
}

// frameIsRecognized reports whether frame is both structurally decodable
// and resolvable (registered entry, or the reserved printf id which needs
// no registration).
func (r *Registry) frameIsRecognized(frame []byte) bool {
	if !isDecodable(frame) {
		return false
	}
	id := parseID(frame)
	if id == PrintfID {
		return true
	}
	_, ok := r.Lookup(id)
	return ok
}

// Decode scans src for recognizable frames, expanding each into a
// "[0xNNNN] <expanded>\n" line against the registry, and folding every
// maximal run of bytes that does not form a recognized frame into a single
// "[0xFFFF][L] <raw span>\n" line — so operators still see the bytes even
// when framing or the id is unrecognized. It writes as many whole lines as
// fit in dst and returns the bytes written plus the number of unused
// (unconsumed) source bytes, so the caller can resume once more
// destination space is available.
func (r *Registry) Decode(dst []byte, src []byte) (written int, unusedSrcLen int) {
	var out []byte
	consumed := 0
	spanStart := 0
	pos := 0
	n := len(src)
	stopped := false

	appendLine := func(line string) bool {
		if len(out)+len(line) > len(dst) {
			stopped = true
			return false
		}
		out = append(out, line...)
		return true
	}

	// flushSpan emits src[spanStart:end] as a bad-span line, stripping one
	// trailing '\n' if the span carries its own (it was "stolen" as the
	// next frame's leading '\n' otherwise) and always appending a
	// synthetic '\n' of our own. Spans that are empty after the strip are
	// skipped silently.
	flushSpan := func(end int) bool {
		if end <= spanStart {
			spanStart = end
			return true
		}
		span := src[spanStart:end]
		if len(span) > 0 && span[len(span)-1] == '\n' {
			span = span[:len(span)-1]
		}
		if len(span) == 0 {
			spanStart = end
			consumed = end
			return true
		}
		if !appendLine(badSpanPrefix + string(span) + "\n") {
			return false
		}
		spanStart = end
		consumed = end
		return true
	}

	for pos < n && !stopped {
		idx := bytes.IndexByte(src[pos:], '\n')
		if idx < 0 {
			break
		}
		idx += pos

		idx2 := bytes.IndexByte(src[idx+1:], '\n')
		if idx2 < 0 {
			break
		}
		idx2 += idx + 1

		frame := src[idx : idx2+1]
		if r.frameIsRecognized(frame) {
			if !flushSpan(idx) {
				break
			}
			if !appendLine(decodeFrame(r, frame)) {
				break
			}
			spanStart = idx2 + 1
			consumed = idx2 + 1
			pos = idx2 + 1
			continue
		}
		pos = idx + 1
	}

	if !stopped && spanStart < n {
		flushSpan(n)
	}

	copy(dst, out)
	return len(out), n - consumed
}
