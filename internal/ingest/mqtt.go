// Package ingest feeds the fuel ledger from dispense events published by
// dock pump controllers over MQTT.
package ingest

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/harborops/portfleet/internal/models"
	"github.com/harborops/portfleet/internal/store"
)

// DefaultTopic is the topic pump controllers publish dispense events to.
const DefaultTopic = "portfleet/fuel/dispense"

// DispenseEvent is the wire format of a pump dispense notification.
type DispenseEvent struct {
	Timestamp   time.Time       `json:"timestamp"`
	EquipmentID string          `json:"equipment_id"`
	FuelType    models.FuelType `json:"fuel_type"`
	Quantity    float64         `json:"quantity"`
	Unit        models.FuelUnit `json:"unit"`
	Operator    string          `json:"operator"`
	Location    string          `json:"location"`
	Notes       string          `json:"notes,omitempty"`
}

// ParseDispenseEvent decodes and validates a dispense payload.
func ParseDispenseEvent(payload []byte) (DispenseEvent, error) {
	var event DispenseEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return DispenseEvent{}, fmt.Errorf("decode dispense event: %w", err)
	}
	if event.EquipmentID == "" {
		return DispenseEvent{}, fmt.Errorf("dispense event missing equipment id")
	}
	if !models.IsValidFuelType(event.FuelType) {
		return DispenseEvent{}, fmt.Errorf("invalid fuel type: %s", event.FuelType)
	}
	if !models.IsValidFuelUnit(event.Unit) {
		return DispenseEvent{}, fmt.Errorf("invalid fuel unit: %s", event.Unit)
	}
	if event.Quantity <= 0 {
		return DispenseEvent{}, fmt.Errorf("quantity must be positive, got %v", event.Quantity)
	}
	return DispenseEvent{
		Timestamp:   event.Timestamp,
		EquipmentID: event.EquipmentID,
		FuelType:    event.FuelType,
		Quantity:    event.Quantity,
		Unit:        event.Unit,
		Operator:    event.Operator,
		Location:    event.Location,
		Notes:       event.Notes,
	}, nil
}

// Record converts the event to a ledger entry. A zero timestamp is stamped
// with the arrival time.
func (e DispenseEvent) Record() models.FuelRecord {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return models.FuelRecord{
		Timestamp:   ts,
		EquipmentID: e.EquipmentID,
		FuelType:    e.FuelType,
		Quantity:    e.Quantity,
		Unit:        e.Unit,
		Operator:    e.Operator,
		Location:    e.Location,
		Notes:       e.Notes,
	}
}

// Subscriber bridges the MQTT dispense topic into the fuel store.
type Subscriber struct {
	client mqtt.Client
	fuel   *store.FuelStore
	topic  string
}

// NewSubscriber connects to the broker and returns a subscriber ready to
// Start. clientID must be unique per broker connection.
func NewSubscriber(brokerURL, clientID, topic string, fuel *store.FuelStore) (*Subscriber, error) {
	if topic == "" {
		topic = DefaultTopic
	}

	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectTimeout(10 * time.Second)
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.WithError(err).Warn("MQTT connection lost")
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to broker %s: %w", brokerURL, token.Error())
	}

	return &Subscriber{client: client, fuel: fuel, topic: topic}, nil
}

// Start subscribes to the dispense topic. Malformed events are logged and
// dropped; the ledger only ever sees validated records.
func (s *Subscriber) Start() error {
	token := s.client.Subscribe(s.topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
		event, err := ParseDispenseEvent(msg.Payload())
		if err != nil {
			log.WithError(err).Warn("Dropping malformed dispense event")
			return
		}
		record := s.fuel.Add(event.Record())
		log.WithFields(log.Fields{
			"equipment_id": record.EquipmentID,
			"fuel_type":    record.FuelType,
			"quantity":     record.Quantity,
		}).Info("Ingested fuel dispense event")
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe to %s: %w", s.topic, token.Error())
	}
	log.WithField("topic", s.topic).Info("Listening for dispense events")
	return nil
}

// Close unsubscribes and disconnects from the broker.
func (s *Subscriber) Close() {
	s.client.Unsubscribe(s.topic)
	s.client.Disconnect(250)
}
