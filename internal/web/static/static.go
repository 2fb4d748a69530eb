// Package static holds the stylesheet served under /static/.
package static

import "embed"

//go:embed *.css
var FS embed.FS
