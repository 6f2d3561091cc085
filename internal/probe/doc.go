// Package probe wraps ffprobe's inspection capability. A single JSON call
// per file yields MediaFacts: duration, size, frame rate, codec names and
// the has-audio flag. Facts are produced fresh on demand and never cached
// across pipeline stages, because the file at a given path changes between
// stages.
package probe
