package registry

import (
	"go.temporal.io/sdk/worker"
)

// Registrar is implemented by each workflow package so a worker can pick up
// its workflows and activities
type Registrar interface {
	// TaskQueue is the queue the package's workflows are started on
	TaskQueue() string

	// Register adds the package's workflows and activities to w
	Register(w worker.Registry)
}

// RegisterAll registers every registrar bound to taskQueue and returns how many matched
func RegisterAll(w worker.Registry, registrars []Registrar, taskQueue string) int {
	n := 0
	for _, r := range registrars {
		if r.TaskQueue() == taskQueue {
			r.Register(w)
			n++
		}
	}
	return n
}
