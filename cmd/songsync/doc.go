// Package main hosts the songsync CLI.
//
// Commands resolve configuration once per invocation, build the metadata
// index client and the local edits store on demand, and print either tables
// or JSON. Protocol logic lives in the internal packages; this package only
// parses flags and renders results.
package main
