package clientdist

import _ "embed"

// BootJS is the production client agent bundle, built from
// client/src/boot.js (which itself imports client/src/sink.js) by the
// esbuild step in internal/build.
//
// It is served by the framework at "/weaver/client.js".
//
//go:embed weaver.min.js
var BootJS []byte

// BootstrapStub is written inline into every page, ahead of BootJS
// ever loading, so that inline signal-definition pushes emitted mid-stream
// never race agent initialization.
const BootstrapStub = `window.weaver={weaverQueue:[],push(msg){this.weaverQueue.push(msg)}};`
