package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Azure/go-amqp"

	"github.com/rafaelmaranon/Availo/common/logger"
	"github.com/rafaelmaranon/Availo/common/rabbitmq"
)

type EventMessage struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// publishEvent emits a domain event to the events queue. Publishing is
// best-effort: a missing broker or a failed send never fails the request
// that triggered the event.
func (app *Config) publishEvent(eventName, eventData string) {
	if app.RabbitConn == nil {
		return
	}
	if err := PublishEvent(app.RabbitConn, eventName, eventData); err != nil {
		logger.Error("Failed to publish event",
			"name", eventName,
			"error", err)
	}
}

func PublishEvent(conn *amqp.Conn, eventName, eventData string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Create a new session for this publish operation
	session, err := conn.NewSession(ctx, nil)
	if err != nil {
		logger.Error("Failed to create AMQP 1.0 session", "error", err)
		return err
	}
	defer session.Close(ctx)

	sender, err := session.NewSender(ctx, rabbitmq.EventsQueueAddress, nil)
	if err != nil {
		logger.Error("Failed to create RabbitMQ sender", "error", err)
		return err
	}
	defer sender.Close(ctx)

	event := EventMessage{
		Name: eventName,
		Data: eventData,
	}

	body, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", "error", err)
		return err
	}

	msg := &amqp.Message{
		Data: [][]byte{body},
		Properties: &amqp.MessageProperties{
			ContentType: to("application/json"),
		},
	}

	if err := sender.Send(ctx, msg, nil); err != nil {
		logger.Error("Failed to publish event", "error", err)
		return err
	}

	logger.Info("Published event to RabbitMQ",
		"name", eventName,
		"data", eventData)

	return nil
}

// Helper function to create string pointer
func to(s string) *string {
	return &s
}
