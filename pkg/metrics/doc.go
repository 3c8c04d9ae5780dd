/*
Package metrics provides Prometheus instrumentation and health-check
plumbing for bistro's runtime.

Metrics cover the event log (appends, version conflicts, Raft apply
latency), command handling per decider, the stream dispatcher (lease
acquisitions, expiries, nacks), view projection upserts, and saga
command dispatch. All metrics register at package init against the
default Prometheus registry and are exposed via Handler() for
scraping. EventLogAppendDuration, RaftApplyDuration,
DispatcherLeasesExpiredTotal, APIRequestsTotal and APIRequestDuration
are registered, but no code in this module updates them.

HealthChecker tracks liveness of named components (raft, eventlog,
api) behind RegisterComponent/UpdateComponent, and GetHealth/
GetReadiness/HealthHandler/ReadyHandler/LivenessHandler expose that
state over HTTP the way a k8s-style liveness/readiness probe expects.
*/
package metrics
