// Package rpc implements the server RPC endpoint: POST
// /weaver/execute. The handler rebuilds a scratch registry from the
// posted signal chain, executes the target, and returns its value. The
// bundled client (client/src) does not call this endpoint and has no
// stub for server-context logic.
package rpc
