// Package engine defines the capability contract an OCR engine must satisfy
// to plug into an ocrkit pipeline.
//
// An [Engine] answers capability queries (version, installed languages) and
// performs three kinds of per-page work: orientation detection, skew
// detection, and text-layer generation. Each operation takes an immutable
// [Options] value resolved once per run, so concrete engines never own
// configuration state of their own.
//
// # Outcomes
//
// Text-layer generation returns a tagged [Result] rather than an error:
//
//   - [OutcomeCompleted] - artifacts were produced before the deadline
//   - [OutcomeTimedOut]  - the deadline elapsed; the page should fall back
//     to its pre-OCR rendering
//   - [OutcomeFailed]    - the engine reported a hard error for this page
//
// A timeout is an expected, recoverable event: one slow page must never
// fail the document. A hard failure indicates a data or configuration
// problem and is surfaced per page for the pipeline to act on.
//
// The production implementation lives in the tesseract package; the
// embedded package provides an in-process alternative. Any type satisfying
// [Engine] is substitutable.
package engine
