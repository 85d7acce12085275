// Package client implements the browser-equivalent trust boundary for the
// IdeaForge dashboard: a persistent bearer-token register, local (unverified)
// token introspection, origin-policy gatekeeping for outbound requests, and
// diagnostic auditing of CORS response headers.
//
// Nothing in this package carries security weight. Token payloads are decoded
// without signature verification and are advisory only: they drive UX
// decisions (auto-logout, expiry banners), never authorization. The server is
// the sole authority on token validity; its 401 responses are the only
// trigger this package trusts.
package client
