// SPDX-License-Identifier: GPL-2.0-only

package logline

// Kind identifies which variant of Arg is populated. Go has no variadic
// printf dispatch, so a call site builds a slice of Arg in place of the
// original firmware's va_list parameters.
type Kind int

const (
	KindInt Kind = iota
	KindUint
	KindFloat
	KindString
	KindChar
	KindPointer
)

// Arg is one rendered-log-call parameter. Exactly one field is meaningful,
// selected by Kind.
type Arg struct {
	Kind   Kind
	Int    int32
	Uint   uint32
	Float  float32
	Str    string
	Char   byte
	Ptr    uintptr
}

func Int(v int32) Arg      { return Arg{Kind: KindInt, Int: v} }
func Uint(v uint32) Arg     { return Arg{Kind: KindUint, Uint: v} }
func Float(v float32) Arg   { return Arg{Kind: KindFloat, Float: v} }
func String(v string) Arg   { return Arg{Kind: KindString, Str: v} }
func Char(v byte) Arg       { return Arg{Kind: KindChar, Char: v} }
func Pointer(v uintptr) Arg { return Arg{Kind: KindPointer, Ptr: v} }
