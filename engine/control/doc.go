// Package control is the non-real-time side of the engine. A [Manager]
// applies configurations to a processor, keeps the last one that worked and
// reports levels; a [Watcher] reloads the configuration file when it
// changes.
package control
