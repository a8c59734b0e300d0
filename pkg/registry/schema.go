// pkg/registry/schema.go
package registry

import "encoding/json"

type ActivityRegistry struct {
	Version     string     `json:"version" yaml:"version"`
	LastUpdated string     `json:"lastUpdated" yaml:"lastUpdated"`
	Activities  []Activity `json:"activities" yaml:"activities"`
}

// Activity describes one Zeebe task type served by the worker manager.
type Activity struct {
	ID          string          `json:"id" yaml:"id"`
	DisplayName string          `json:"displayName" yaml:"displayName"`
	Description string          `json:"description" yaml:"description"`
	Category    string          `json:"category" yaml:"category"`
	TaskType    string          `json:"taskType" yaml:"taskType"`
	InputSchema json.RawMessage `json:"inputSchema" yaml:"-"`
	ErrorCodes  []string        `json:"errorCodes" yaml:"errorCodes"`
	Timeout     string          `json:"timeout" yaml:"timeout"`
	Retries     int             `json:"retries" yaml:"retries"`
}
