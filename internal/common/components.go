package common

const (
	ComponentPipeline    = "pipeline"
	ComponentListener    = "listener"
	ComponentWriter      = "writer"
	ComponentMonitor     = "monitor"
	ComponentTaskStore   = "task-store"
	ComponentBlockStore  = "block-store"
	ComponentQueue       = "queue"
	ComponentAlerts      = "alerts"
	ComponentSLI         = "sli"
	ComponentAPI         = "api"
	ComponentMaintenance = "maintenance"
	ComponentMetrics     = "metrics"
)

var AllComponents = map[string]struct{}{
	ComponentPipeline:    {},
	ComponentListener:    {},
	ComponentWriter:      {},
	ComponentMonitor:     {},
	ComponentTaskStore:   {},
	ComponentBlockStore:  {},
	ComponentQueue:       {},
	ComponentAlerts:      {},
	ComponentSLI:         {},
	ComponentAPI:         {},
	ComponentMaintenance: {},
	ComponentMetrics:     {},
}
