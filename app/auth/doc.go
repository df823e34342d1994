// Package auth holds the authentication and ownership-authorization core:
// password hashing and verification, signed session tokens, the request
// identity carried through context, and the owner check applied before
// mutations.
//
// Everything in this package is safe for concurrent use. Services are built
// once at startup from immutable configuration and never mutated.
package auth
