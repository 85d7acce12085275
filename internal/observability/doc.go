// Package observability provides structured logging for the IdeaForge
// dashboard.
//
// All components log through a shared zap logger constructed here; the log
// level and encoding come from configuration. The client SDK's debug toggle
// raises the verbosity of its policy and audit diagnostics independently of
// the level configured here.
package observability
