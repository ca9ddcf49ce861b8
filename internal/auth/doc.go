// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package auth resolves the credentials a user supplied into a Session that
// authorizes requests to the workflow server.
//
// Exactly one credential source may be given: a username/password pair, a
// secrets file, a service-account key file or a bearer token. Giving none
// yields an unauthenticated session. All checks happen in Resolve, before any
// request is sent.
//
// Service-account sessions sign an RS256 assertion and exchange it at the
// key's token URI for an access token; WithSelfSignedTokens sends the signed
// token itself instead. The current token is cached inside the session and
// minted again shortly before it expires.
// The cache is guarded by a mutex so one Session can be shared by concurrent
// requests.
package auth
