// Package tasks schedules outbound catalog work.
//
// # Sequential plans
//
// A [Scheduler] runs an ordered list of [Task]s one at a time with a fixed
// cooldown between them. Strategy loops (identity resolution, deep search) use
// it to keep the outbound request rate low; they are never fanned out.
//
//   - A task that fails is logged and skipped; the next task still runs.
//   - A task can stop the plan early by returning [Stop].
//   - The cooldown is waited before every task except the first and is cut
//     short only by context cancellation.
//
// # Fan-out
//
// [AllSettled] runs independent sub-pipelines (one per genre or query)
// concurrently and returns their outcomes in declaration order, never in
// completion order.
//
// # Progress Reporting
//
// Both primitives emit [ProgressUpdate]s over an optional channel. Sends use
// select with default so a slow or absent reader never blocks a plan.
package tasks
