/*
Package observability turns facade lifecycle events into Prometheus metrics and log lines.

Both helpers return domain.Hooks, so they can be combined with Hooks.Merge and passed
to envguard.WithHooks.
*/
package observability
