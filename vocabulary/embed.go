// Package vocabulary embeds a small CEFR sample vocabulary for compile-time inclusion.
// It backs the "builtin" source kind and the end-to-end tests; production
// deployments point the server at a full vocabulary file instead.
//
// Usage:
//
//	filesource.NewFS(vocabulary.FS, vocabulary.Sample)
package vocabulary

import "embed"

// Sample is the path of the sample vocabulary inside FS.
const Sample = "sample.json"

//go:embed sample.json
var FS embed.FS
