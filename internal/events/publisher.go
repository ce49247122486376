package events

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/garageos/workshop-manager/internal/models"
)

// StatusEvent is published whenever a job's workflow status changes, so
// waiting-room displays and the tracking page can react without polling.
type StatusEvent struct {
	JobID        string           `json:"job_id"`
	Registration string           `json:"registration"`
	Status       models.JobStatus `json:"status"`
	Time         time.Time        `json:"time"`
}

// Publisher emits job status-change events.
type Publisher interface {
	PublishStatus(event StatusEvent)
}

// NopPublisher drops all events. Used when no broker is configured.
type NopPublisher struct{}

// PublishStatus discards the event.
func (NopPublisher) PublishStatus(StatusEvent) {}

// MQTTPublisher publishes status events to an MQTT topic.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
}

// NewMQTTPublisher connects to the broker and returns a publisher. Publishing
// is fire-and-forget; a dropped message is logged, never retried.
func NewMQTTPublisher(broker, topic string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("workshop-manager").
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect error: %w", token.Error())
	}
	return &MQTTPublisher{client: client, topic: topic}, nil
}

// PublishStatus sends the event as JSON, QoS 0.
func (p *MQTTPublisher) PublishStatus(event StatusEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).Error("Failed to marshal status event")
		return
	}
	token := p.client.Publish(p.topic, 0, false, payload)
	go func() {
		if token.Wait() && token.Error() != nil {
			log.WithError(token.Error()).WithField("job_id", event.JobID).
				Warn("Failed to publish status event")
		}
	}()
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
