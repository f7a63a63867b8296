// Package build provides production build functionality for Weaver
// applications.
//
// This package handles:
//   - Go binary compilation with optimizations
//   - Client agent JavaScript bundling and minification
//   - The build-time logic-module transform: rewriting
//     define*(...import("./path"), ...) call sites so each logic
//     module carries a content-addressable id, bundling each discovered
//     module as its own entry point, and emitting an id -> public-url
//     manifest
//   - Optional upload of built logic-module bundles and the client agent
//     to S3-compatible object storage, for CDN-fronted serving
//   - Tailwind CSS compilation
//   - Static asset copying with cache busting
//
// # Usage
//
//	builder := build.New(cfg, build.Options{})
//	result, err := builder.Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Built in %s\n", result.Duration)
//	fmt.Printf("Binary: %s\n", result.Binary)
//	fmt.Printf("Logic modules: %d\n", len(result.LogicManifest))
//
// # Output Structure
//
//	dist/
//	├── server                 # Go binary
//	├── public/
//	│   ├── weaver.min.js      # Client agent
//	│   ├── logic/             # Bundled logic modules, one file per id
//	│   ├── styles.css         # Compiled CSS
//	│   └── assets/            # Static files with hashes
//	├── manifest.json          # Static asset manifest
//	└── logic-manifest.json    # id -> public-url
package build
