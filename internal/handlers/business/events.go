package business

import (
	"time"

	"binaryledger/pkg/config"

	"github.com/sirupsen/logrus"
)

var eventPublisher *config.Publisher

// InitEvents wires the queue publisher. Without it events are dropped
// silently; publishing is best effort and never blocks settlement.
func InitEvents() {
	pub, err := config.NewPublisher()
	if err != nil {
		logrus.Warnf("event publisher unavailable, events disabled: %v", err)
		return
	}
	eventPublisher = pub
}

// SetEventPublisher overrides the publisher, used by the worker and tests.
func SetEventPublisher(pub *config.Publisher) {
	eventPublisher = pub
}

func publishEvent(kind string, payload map[string]interface{}) {
	if eventPublisher == nil {
		return
	}
	message := map[string]interface{}{
		"event":      kind,
		"payload":    payload,
		"emitted_at": time.Now().UTC().Format(time.RFC3339),
	}
	if err := eventPublisher.Publish(config.BinaryEventsQueue, message); err != nil {
		logrus.Errorf("failed to publish %s event: %v", kind, err)
	}
}
