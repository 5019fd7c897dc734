// Package inference defines the model inference collaborator: a single
// Generate call shape consumed by planning and acting, provider adapters
// for a local Ollama daemon and the OpenAI / Anthropic APIs, and a Chain
// implementing the local-first, cloud-fallback policy.
//
// The Chain never raises towards the orchestration core. When the local
// path is unavailable (or its circuit breaker is open) it falls back to
// the cloud path; when both are absent it returns the NoEngine sentinel
// string so callers always receive text.
package inference
