// Package protocol implements the tagged-string resolution engine of the
// strata pipeline.
//
// After sources are merged, the resolver walks the configuration tree and
// rewrites every string leaf of the form "<name>:<payload>" whose name
// matches a registered handler. Handlers return a replacement value of any
// shape; strings matching no registered handler pass through verbatim.
//
// Built-in handlers cover common needs: "path" resolves payloads to
// absolute filesystem paths, "file" substitutes a file's raw contents,
// "base64" decodes, "env" reads an environment variable, "exec" runs a
// command, and "require" resolves a module reference. The "import"
// handler, which re-enters the load pipeline, is registered by the loader
// package. User handlers override built-ins of the same name.
package protocol
