// cmd/datadict/main.go
//
// datadict – data-dictionary validator CLI.
//
// Command flow
// ------------
//
//  1. Load config (optional YAML file → DATADICT_ env overrides).
//
//  2. Start the logger (console on stderr, or daily rotating file).
//
//  3. Build one shared specification store (LRU + singleflight).
//
//  4. Run the sub-command:
//
//     • args   – parser arguments of one dataset, JSON or text
//     • check  – validate every dataset of a collection
//     • list   – dataset names of a collection
//     • serve  – read-only HTTP API plus /metrics
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

func main() { Execute() }
