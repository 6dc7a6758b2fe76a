// Package bufio2 provides a paged, cursor-addressed read/write layer
// over a single file, plus a factory that memoizes managers by tag
// (version hash or index-part number) within a root directory. Every
// on-disk index and raw-vector file in the engine is read and written
// exclusively through a Manager; nothing else calls os.File directly.
package bufio2
