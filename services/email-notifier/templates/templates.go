// Package templates embeds the order notification email bodies.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
