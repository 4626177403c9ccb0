package main

import (
	"fmt"
	"slices"

	"github.com/goran-ethernal/BlockPipe/internal/common"
)

const (
	serviceListener = common.ComponentListener
	serviceWriter   = common.ComponentWriter
	serviceMonitor  = common.ComponentMonitor
)

var knownServices = []string{serviceListener, serviceWriter, serviceMonitor}

type serviceSet []string

func (s serviceSet) has(name string) bool {
	return slices.Contains(s, name)
}

// monitorWithoutListener reports whether the monitor runs in a process that
// receives no frontier notifications of its own.
func (s serviceSet) monitorWithoutListener() bool {
	return s.has(serviceMonitor) && !s.has(serviceListener)
}

// parseServices turns the --services flag into a set of known service names.
func parseServices(arg string) (serviceSet, error) {
	var out serviceSet
	for _, name := range common.SplitCSV(arg) {
		if !slices.Contains(knownServices, name) {
			return nil, fmt.Errorf("unknown service %q, expected one of %v", name, knownServices)
		}
		if !out.has(name) {
			out = append(out, name)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("at least one service is required")
	}

	return out, nil
}
