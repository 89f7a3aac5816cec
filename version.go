// Package varly is the root of the varly repository, carrying the release
// version and the canonical URL.
package varly

// Version is the current release tag of varly.
var Version = "v0.2.3"

// URL is the canonical home of this repository.
var URL = "https://varly.lol"
