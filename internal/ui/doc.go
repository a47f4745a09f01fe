// Package ui implements a terminal progress view for batch genre resolution using bubbletea's Elm architecture.
//
// The TUI has two views:
//  1. [ProgressView] : a spinner, live resolved/unknown/failed counters and the latest progress lines
//  2. [ResultView] : the batch summary and a browsable list of outcomes
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the BatchEngine; the engine sends without blocking, so a slow
// terminal drops lines rather than stalling workers. Counters are reconciled with the final result.
//
// Pressing q or ctrl+c while a batch runs cancels its context; the remaining items are reported as cancelled.
package ui
