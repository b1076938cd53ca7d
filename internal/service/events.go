package service

import "sync"

// EventType names what a service did
type EventType string

const (
	EventGraphLoaded        EventType = "graph_loaded"
	EventValidationFinished EventType = "validation_finished"
	EventSubgraphExtracted  EventType = "subgraph_extracted"
	EventArtifactWritten    EventType = "artifact_written"
	EventAnalysisFinished   EventType = "analysis_finished"
)

// Event represents something a service did
type Event struct {
	Type    EventType         `json:"type"`
	Payload map[string]string `json:"payload,omitempty"`
}

// EventBus fans events out to subscriber channels. Publishing never
// blocks: a subscriber whose buffer is full misses the event.
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
	dropped     int
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers. A nil bus drops events.
func (eb *EventBus) Publish(event Event) {
	if eb == nil {
		return
	}

	eb.mu.Lock()
	defer eb.mu.Unlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			eb.dropped++
		}
	}
}

// Dropped returns how many deliveries were skipped because a subscriber
// was full
func (eb *EventBus) Dropped() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return eb.dropped
}
