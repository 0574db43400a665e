package common

// RequestIDHeaderName is the HTTP header carrying the per-request correlation id.
const RequestIDHeaderName = "X-Request-ID"

// UsersPathPrefix is the mount point of every user-scoped route.
const UsersPathPrefix = "/User"
