// Package session supplies the bearer token and user identity used to call
// the pipeline backend. Token issuance itself happens elsewhere (the user
// pastes a token via `intervox auth login`); this package only stores the
// result and answers "what are my current credentials", possibly with
// "none" as the answer. Callers treat missing credentials as a skip
// condition, not an error to retry.
package session
