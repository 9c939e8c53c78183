// Package realtime publishes best-effort notifications over MQTT so
// other viewers learn about attendance events. Delivery is at-most-once
// (QoS 0), unacknowledged and unordered; nothing in the system depends
// on a message arriving.
package realtime

import (
	"encoding/json"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/rssbrudrapur/sewabase/core"
	"github.com/rssbrudrapur/sewabase/core/attendance"
)

const (
	topicAttendanceMarked = "sewabase/attendance/marked"

	connectTimeout = 5 * time.Second
	publishTimeout = 3 * time.Second
)

type MQTTPublisher struct {
	client mqtt.Client
	log    core.Logger
}

var _ attendance.EventPublisher = (*MQTTPublisher)(nil) // interface compliance check

func NewMQTTPublisher(conf *core.Config, log core.Logger) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(conf.Mqtt.BrokerURL).
		SetClientID(conf.Mqtt.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warn("mqtt: connection lost: "+err.Error(), err)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, mqtt.ErrNotConnected
	}
	if err := token.Error(); err != nil {
		return nil, err
	}
	return &MQTTPublisher{client: client, log: log}, nil
}

// PublishMarked fires the event and forgets it; failures are logged and
// the caller is never told.
func (p *MQTTPublisher) PublishMarked(ev attendance.MarkedEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("mqtt: encoding attendance event: "+err.Error(), err)
		return
	}
	go func() {
		token := p.client.Publish(topicAttendanceMarked, 0 /* at most once */, false, payload)
		if !token.WaitTimeout(publishTimeout) {
			p.log.Warn("mqtt: publish timed out")
			return
		}
		if err := token.Error(); err != nil {
			p.log.Warn("mqtt: publish failed: "+err.Error(), err)
		}
	}()
}

func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
