// Package browser defines the browser automation collaborator with a
// fixed action vocabulary (navigate, click, type, scroll, screenshot,
// extract, evaluate). Every action returns a Result carrying success,
// data and an error string; failures never cross the boundary as Go
// errors or panics.
//
// Two implementations are provided: ChromeDP drives a real headless
// Chrome over the DevTools protocol, and Fake answers deterministically
// for tests and offline development.
package browser
