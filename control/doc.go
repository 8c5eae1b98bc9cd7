// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics, configuration files with hot reload, and debug
// introspection for the dispatcher and the demo programs.
//
// Metrics live on a private Prometheus registry so several servers in one
// process never collide. Configuration files are JSON; WatchConfig re-reads
// them on change. DebugProbes collects named state snapshots.
package control
