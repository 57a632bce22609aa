// Package auth provides the static credential check used to open a session and
// the HMAC-signed access tokens that identify the session owner on later
// requests.
package auth
