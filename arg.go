// SPDX-License-Identifier: GPL-2.0-only

package hyperion

import "github.com/embeddedlog/hyperion/logline"

// Arg and its constructors are re-exported from logline so call sites only
// need to import the root package for everyday use.
type Arg = logline.Arg

var (
	Int     = logline.Int
	Uint    = logline.Uint
	Float   = logline.Float
	String  = logline.String
	Char    = logline.Char
	Pointer = logline.Pointer
)

// Group and Entry are re-exported for registering log entries without a
// second import.
type (
	Group = logline.Group
	Entry = logline.Entry
)
