// Package config loads the runtime configuration.
//
// The configuration is stored in lifecycle.json, lifecycle.yaml or
// lifecycle.yml. This package handles loading, saving, and validating it.
//
// # Configuration File Structure
//
//	name: counter
//	log:
//	  level: debug
//	  format: json
//	render:
//	  hydratable: true
//	server:
//	  host: 0.0.0.0
//	  port: 8080
//	  messagesPerSecond: 20
//	  burst: 40
//	export:
//	  dir: dist
//	  s3:
//	    bucket: pages
//	    prefix: site/
//	    region: eu-west-1
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Address:", cfg.Address())
package config
