// SPDX-License-Identifier: GPL-2.0-only

package logline

import (
	"fmt"
	"strings"
)

// MaxLineSize is the fixed rendering buffer size for one log line.
const MaxLineSize = 128

const truncationSuffix = ".. truncated ..|\n"

type token struct {
	literal     string
	isSpecifier bool
	raw         string
	specChar    byte
}

func isFlagOrDigit(c byte) bool {
	return c == '+' || c == '-' || c == ' ' || c == '#' || c == '.' || (c >= '0' && c <= '9')
}

// tokenize walks a format string the way logger_find_next_specifier does:
// scanning for '%', skipping literal "%%" pairs untouched, and accepting
// flags/width/precision/[l] before one of diuxXfFcsp. An unrecognized
// trailing character is a formatting error, same as the original.
func tokenize(format string) ([]token, error) {
	var toks []token
	i, n := 0, len(format)

	for i < n {
		idx := strings.IndexByte(format[i:], '%')
		if idx < 0 {
			toks = append(toks, token{literal: format[i:]})
			break
		}
		idx += i

		if idx+1 < n && format[idx+1] == '%' {
			toks = append(toks, token{literal: format[i : idx+2]})
			i = idx + 2
			continue
		}

		if idx > i {
			toks = append(toks, token{literal: format[i:idx]})
		}

		j := idx + 1
		for j < n && isFlagOrDigit(format[j]) {
			j++
		}
		if j < n && format[j] == 'l' {
			j++
		}
		if j >= n {
			return nil, ErrFormattingError
		}
		spec := format[j]
		if !strings.ContainsRune("diuxXfFcsp", rune(spec)) {
			return nil, ErrFormattingError
		}
		toks = append(toks, token{isSpecifier: true, raw: format[idx : j+1], specChar: spec})
		i = j + 1
	}
	return toks, nil
}

// goFragment translates one extracted C-style specifier into the
// equivalent fmt verb fragment plus the Arg kind it expects.
func goFragment(t token) (frag string, want Kind, err error) {
	body := strings.TrimSuffix(t.raw[1:len(t.raw)-1], "l")

	switch t.specChar {
	case 'd', 'i':
		return "%" + body + "d", KindInt, nil
	case 'u':
		return "%" + body + "d", KindUint, nil
	case 'x':
		return "%" + body + "x", KindUint, nil
	case 'X':
		return "%" + body + "X", KindUint, nil
	case 'f', 'F':
		return "%" + body + "f", KindFloat, nil
	case 'c':
		return "%" + body + "c", KindChar, nil
	case 's':
		return "%" + body + "s", KindString, nil
	case 'p':
		return "0x%" + body + "x", KindPointer, nil
	default:
		return "", 0, ErrFormattingError
	}
}

func argValue(a Arg, want Kind) (interface{}, error) {
	if a.Kind != want {
		return nil, ErrFormattingError
	}
	switch want {
	case KindInt:
		return a.Int, nil
	case KindUint:
		return a.Uint, nil
	case KindFloat:
		return float64(a.Float), nil
	case KindString:
		return a.Str, nil
	case KindChar:
		return rune(a.Char), nil
	case KindPointer:
		return uint64(a.Ptr), nil
	default:
		return nil, ErrFormattingError
	}
}

// expandWhole renders the entire format string in one pass (the original's
// vsnprintf-over-the-whole-buffer path), used for human-mode lines and for
// the unregistered printf variant's encoded body.
func expandWhole(format string, args []Arg) (string, error) {
	toks, err := tokenize(format)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	var vals []interface{}
	ai := 0
	for _, t := range toks {
		if !t.isSpecifier {
			sb.WriteString(t.literal)
			continue
		}
		frag, want, err := goFragment(t)
		if err != nil {
			return "", err
		}
		if ai >= len(args) {
			return "", ErrFormattingError
		}
		v, err := argValue(args[ai], want)
		if err != nil {
			return "", err
		}
		ai++
		sb.WriteString(frag)
		vals = append(vals, v)
	}
	return fmt.Sprintf(sb.String(), vals...), nil
}

func substituteSpecialChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '|':
			b.WriteByte('!')
		case '\n':
			b.WriteByte('\r')
		case 0:
			b.WriteByte('0')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// FormatHuman renders "[0xNNNN] <expanded format>\n": the whole format is
// expanded against args in one pass, then special characters are
// substituted across the expanded body (never the id prefix).
func FormatHuman(id uint16, format string, args []Arg) (string, error) {
	body, err := expandWhole(format, args)
	if err != nil {
		return "", err
	}
	body = substituteSpecialChars(body)
	return fmt.Sprintf("[0x%04X] %s\n", id, body), nil
}

// FormatEncoded renders the persisted wire form. When registered is true
// (a normal, registered-id log call) each specifier's argument is rendered
// and substituted individually and joined by '|' — literal format text is
// dropped, since the decoder reconstructs it from the registered format.
// When registered is false (an unregistered printf call), the whole format
// is expanded in one pass and substituted as a single blob, since there is
// no registered format for a future decode to split against.
func FormatEncoded(id uint16, format string, args []Arg, registered bool) (string, error) {
	if !registered {
		body, err := expandWhole(format, args)
		if err != nil {
			return "", err
		}
		body = substituteSpecialChars(body)
		return fmt.Sprintf("\n%04X|%s|\n", id, body), nil
	}

	toks, err := tokenize(format)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%04X|", id)
	ai := 0
	for _, t := range toks {
		if !t.isSpecifier {
			continue
		}
		frag, want, err := goFragment(t)
		if err != nil {
			return "", err
		}
		if ai >= len(args) {
			return "", ErrFormattingError
		}
		v, err := argValue(args[ai], want)
		if err != nil {
			return "", err
		}
		ai++
		rendered := substituteSpecialChars(fmt.Sprintf(frag, v))
		sb.WriteString(rendered)
		sb.WriteByte('|')
	}
	sb.WriteByte('\n')
	return sb.String(), nil
}

func truncateLine(s string, limit int) string {
	if limit <= len(truncationSuffix) {
		return truncationSuffix[:limit]
	}
	return s[:limit-len(truncationSuffix)] + truncationSuffix
}

// Render builds one complete log line for a writer: human or encoded mode,
// registered or printf-style, always fitted to MaxLineSize. A formatting
// error yields the sentinel "this log entry has formatting errors" line;
// an overflow yields a truncated line with the ".. truncated .." sentinel
// suffix. In both salvage cases the event is still emitted (err is
// informational, not fatal) — callers that care can check it.
func Render(id uint16, format string, args []Arg, human bool, registered bool) (string, error) {
	var (
		body string
		err  error
	)
	if human {
		body, err = FormatHuman(id, format, args)
	} else {
		body, err = FormatEncoded(id, format, args, registered)
	}
	if err != nil {
		return fmt.Sprintf("[0x%04X]this log entry has formatting errors|\n", id), ErrFormattingError
	}
	if len(body) > MaxLineSize {
		return truncateLine(body, MaxLineSize), ErrBufferOverflow
	}
	return body, nil
}
