// Package stats provides statistical reducers built on package fold:
// streaming central moments and reservoir sampling. Both are mergeable,
// so they run under every driver in package run.
package stats
