// Package watch drives rebuilds in watch mode.
//
// A Watcher bridges fsnotify notifications into a channel of Events. A
// Scheduler consumes that channel, coalesces bursts of matching events into a
// single pending flag and polls it on a fixed interval, running at most one
// build cycle at a time. Events that arrive while a cycle runs re-arm the flag
// and produce exactly one follow-up cycle.
package watch
