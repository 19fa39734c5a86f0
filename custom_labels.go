package main

import (
	"sort"

	"github.com/czerwonk/ping_chart/config"
)

// builtinLabels are set for every series and cannot be overridden by the
// target config.
var builtinLabels = []string{"target", "ip", "ip_version"}

// customLabels holds the user defined labels of the target, sorted by name.
type customLabels struct {
	names  []string
	values []string
}

func newCustomLabels(t config.TargetConfig) customLabels {
	cl := customLabels{}
	for name := range t.Labels {
		if !isBuiltinLabel(name) {
			cl.names = append(cl.names, name)
		}
	}
	sort.Strings(cl.names)

	cl.values = make([]string, len(cl.names))
	for i, name := range cl.names {
		cl.values[i] = t.Labels[name]
	}

	return cl
}

func isBuiltinLabel(name string) bool {
	for _, b := range builtinLabels {
		if b == name {
			return true
		}
	}
	return false
}
