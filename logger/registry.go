package logger

import "sync"

// named holds loggers registered by component name.
var named sync.Map // map[string]*Logger

// Register makes l the logger returned by Get(name), e.g. to give the "run"
// drivers their own level or output.
func Register(name string, l *Logger) {
	named.Store(name, l)
}

// Unregister removes the logger registered under name.
func Unregister(name string) {
	named.Delete(name)
}

// Get returns the logger registered under name, or the global logger tagged
// with component=name.
func Get(name string) *Logger {
	if l, ok := named.Load(name); ok {
		return l.(*Logger)
	}
	return GetGlobalLogger().WithComponent(name)
}
