// Simulates dock pump controllers: a handful of machines draw fuel at
// random intervals and each dispense is published to the MQTT topic the
// server ingests from.
package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// DispenseEvent mirrors the server's ingest wire format.
type DispenseEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	EquipmentID string    `json:"equipment_id"`
	FuelType    string    `json:"fuel_type"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit"`
	Operator    string    `json:"operator"`
	Location    string    `json:"location"`
}

var operators = []string{
	"Carlos Soto",
	"Ana Diaz",
	"Pedro Fuentes",
	"Maria Vargas",
	"Jorge Castillo",
}

var locations = []string{
	"Dock 1",
	"Dock 2",
	"Dock 3",
	"North Yard",
	"Container Terminal",
}

// Machine is one simulated fuel consumer.
type Machine struct {
	EquipmentID string
	FuelType    string
	TankLiters  float64
}

func randomFleet(size int) []Machine {
	fleet := make([]Machine, 0, size)
	for i := 0; i < size; i++ {
		fuelType := "DIESEL"
		tank := 200 + rand.Float64()*400
		if rand.Intn(4) == 0 {
			fuelType = "GAS"
			tank = 80 + rand.Float64()*120
		}
		fleet = append(fleet, Machine{
			EquipmentID: fmt.Sprintf("EQ%06d", i+1),
			FuelType:    fuelType,
			TankLiters:  tank,
		})
	}
	return fleet
}

func randomDispense(m Machine) DispenseEvent {
	// Between 10% and 90% of a tank per visit.
	quantity := m.TankLiters * (0.1 + rand.Float64()*0.8)
	return DispenseEvent{
		Timestamp:   time.Now().UTC(),
		EquipmentID: m.EquipmentID,
		FuelType:    m.FuelType,
		Quantity:    float64(int(quantity*10)) / 10,
		Unit:        "LITERS",
		Operator:    operators[rand.Intn(len(operators))],
		Location:    locations[rand.Intn(len(locations))],
	}
}

func publishDispense(client mqtt.Client, topic string, event DispenseEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).Error("Failed to marshal dispense event")
		return
	}
	token := client.Publish(topic, 1, false, data)
	if token.Wait() && token.Error() != nil {
		log.WithError(token.Error()).Error("Failed to publish dispense event")
		return
	}
	log.WithFields(log.Fields{
		"equipment_id": event.EquipmentID,
		"fuel_type":    event.FuelType,
		"quantity":     event.Quantity,
	}).Info("Published dispense event")
}

func main() {
	broker := os.Getenv("MQTT_BROKER")
	if broker == "" {
		broker = "tcp://localhost:1883"
	}
	topic := os.Getenv("MQTT_TOPIC")
	if topic == "" {
		topic = "portfleet/fuel/dispense"
	}

	fleetSize := 8
	if val := os.Getenv("FLEET_SIZE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			fleetSize = n
		}
	}

	interval := 5 * time.Second
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			interval = time.Duration(n) * time.Second
		}
	}

	log.WithFields(log.Fields{
		"broker":     broker,
		"topic":      topic,
		"fleet_size": fleetSize,
		"interval":   interval,
	}).Info("Starting pump simulation")

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(fmt.Sprintf("portfleet-sim-%d", os.Getpid())).
		SetConnectRetry(true).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.WithError(token.Error()).Fatal("Failed to connect to MQTT broker")
	}
	defer client.Disconnect(250)

	fleet := randomFleet(fleetSize)

	tick := time.NewTicker(interval)
	defer tick.Stop()
	for range tick.C {
		// Not every machine refuels every tick.
		m := fleet[rand.Intn(len(fleet))]
		publishDispense(client, topic, randomDispense(m))
	}
}
