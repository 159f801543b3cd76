// Package build runs one incremental build cycle: every source is compiled
// concurrently into its object artifact, the per-unit results are folded
// into a link decision, and the linker runs only when that decision allows.
//
// Change detection works on output bytes only. Each unit's previous object is
// read before the compiler runs and compared with the fresh object afterwards.
package build
