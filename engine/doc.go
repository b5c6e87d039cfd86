// Package engine runs block scripts.
//
// An [Engine] owns a thread table and a step queue over a virtual clock.
// Every event (green flag, key press, sprite click, broadcast) spawns a
// [Thread] that walks one extracted command chain, executing exactly one
// command per wake-up and then yielding until the delay that command
// reported has elapsed on the clock. Nothing runs until the clock is moved
// with [Engine.Advance], [Engine.RunUntilIdle] or [Engine.Run], which makes
// every run reproducible.
//
// Sprites are shared between the threads that target them without any
// locking: two threads writing the same field race in last-write-wins
// order, and "change [] by []" is a read-modify-write that another thread
// can interleave with between steps. The Engine itself is not safe for
// concurrent use; drive it from one goroutine.
package engine
