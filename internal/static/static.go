package static

import _ "embed"

// IntegrationMd contains the embedded SDK integration guide for agent developers.
//
//go:embed integration.md
var IntegrationMd string

// IndexHTML contains the embedded index.html landing page.
//
//go:embed index.html
var IndexHTML string
