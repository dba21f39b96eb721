// Package steady makes UI-automation handles resilient to re-rendering
// documents.
//
// Raw element handles go stale whenever the page re-renders, and most
// operations only make sense once the target is present, visible or
// clickable. The types in this package decorate a [Driver] and its
// [Element] values so that every operation re-resolves its target, waits
// for the readiness [Condition] the operation needs, and retries when the
// element turned stale in between:
//
//   - [DriverHandle] wraps a driver and hands out resilient elements.
//   - [ElementHandle] re-resolves, waits and retries on every call.
//   - [LazyElementList] is a read-only view over a collection that may
//     still be growing; indexed access waits for the index to appear.
//
// Adapters for concrete automation back-ends live in sub-packages
// (webdriver, rodx, pwx).
package steady
