// Package config provides configuration parsing for Weaver projects.
//
// The configuration is stored in weaver.json at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "dev": {
//	    "port": 3000,
//	    "host": "localhost",
//	    "openBrowser": true
//	  },
//	  "build": {
//	    "output": "dist",
//	    "minify": true,
//	    "sourceMaps": false,
//	    "s3": {
//	      "bucket": "assets.example.com",
//	      "region": "us-east-1",
//	      "publicBaseUrl":"https://cdn.example.com"
//	    }
//	  },
//	  "tailwind": {
//	    "enabled": true,
//	    "config": "./tailwind.config.js"
//	  },
//	  "rpc": {
//	    "path": "/weaver/execute"
//	  },
//	  "worker": {
//	    "poolSize": 4
//	  },
//	  "suspense": {
//	    "defaultTimeoutMs": 3000
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Port:", cfg.Dev.Port)
package config
