// Package blocks holds the block model of the editor: the template catalog,
// the arena graph of placed blocks with its drop-to-connect logic, and the
// extractor that turns hat-rooted stacks into command lists.
//
// Blocks refer to their neighbors by [BlockID] rather than by pointer, so
// removing a block or detecting a corrupted cyclic chain is a matter of
// checking IDs. A block's semantics are identified by its [Opcode]; display
// text is only consulted once, by [LookupText], when loading legacy text.
package blocks
