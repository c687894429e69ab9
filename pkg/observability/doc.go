/*
Package observability turns Concierge lifecycle events into Prometheus metrics
and structured logs.

Both are plain domain.LifecycleHooks; combine them with domain.ChainHooks.
*/
package observability
