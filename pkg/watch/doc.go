// Package watch reloads configuration when its files change.
//
// A Watcher observes the directory of a configuration path with fsnotify
// and re-runs the load pipeline after a quiet period, so editors that
// write multiple events per save trigger one reload. An optional cron
// schedule forces periodic reloads, which picks up changes that file
// events cannot see, such as environment-driven imports or exec
// protocol output.
//
// Reload failures keep the previous configuration. Subscribers receive
// each successfully reloaded configuration; the current one is always
// available from Current.
package watch
