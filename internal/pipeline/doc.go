// Package pipeline orchestrates opacity generation: one sequential optool
// invocation per requested temperature, with per-request working-directory
// lifecycle and aggregate success/failure reporting. A failed temperature is
// recorded and the loop continues; it never aborts the batch.
//
// Known limitation: the working directory under the output directory has a
// fixed name, so concurrent dustopac processes sharing an output directory
// collide. Runs are strictly sequential within one process.
package pipeline
