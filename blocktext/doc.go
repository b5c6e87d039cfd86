// Package blocktext reads and writes block scripts as plain text.
//
// One line is one block, written as its display text with each input slot
// filled in brackets:
//
//	sprite Cat
//	when flag clicked
//	say [Hello!] for [2] secs
//	change x by [10]
//
//	when I receive [go]
//	turn right [15] degrees
//
// A "sprite" line addresses the following blocks to that sprite. A hat
// block or a blank line starts a new stack; every other line is attached
// beneath the line before it. Text after # is a comment. Whitespace inside
// block text is insignificant, and an empty slot "[]" keeps the palette
// default.
package blocktext
