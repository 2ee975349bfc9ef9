// Package config defines the pipeline settings and provides helpers to
// load, validate and save them in YAML format.
//
// Settings cover the log level, the archive path, the live sensor table and
// the scenario catalog. A built-in catalog of six training scenarios and a
// standard sensor table are used when no file is provided.
package config
