// Package main hosts the intervox CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into REST
// calls against the transcription backend, queue-driven uploads, live
// status watching over the realtime feed, and configuration scaffolding.
// It centralizes configuration resolution, session handling, and structured
// logging setup so subcommands can focus on user experience instead of
// wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
