package rabbit

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const exchangeName = "nanocart_orders"

// Eventos de ciclo de vida de la orden.
const (
	EventOrderPlaced        = "order_placed"
	EventOrderStatusChanged = "order_status_changed"
)

type OrderEvent struct {
	Event     string    `json:"event"`
	OrderID   string    `json:"orderId"`
	OwnerID   string    `json:"ownerId"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher emite los eventos de órdenes a un exchange fanout, para que
// cualquier servicio interesado se cuelgue con su propia queue.
type Publisher struct {
	ch *amqp091.Channel
}

func NewPublisher(ch *amqp091.Channel) (*Publisher, error) {
	// 1. Declarar el exchange fanout
	err := ch.ExchangeDeclare(
		exchangeName,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Println("❌ Error declarando exchange:", err)
		return nil, err
	}

	log.Println("🐰 Exchange", exchangeName, "declarado (fanout)")
	return &Publisher{ch: ch}, nil
}

func (p *Publisher) Publish(ctx context.Context, event OrderEvent) error {
	event.Timestamp = time.Now().UTC()

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = p.ch.PublishWithContext(ctx,
		exchangeName,
		"", // fanout ignora routing key
		false,
		false,
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		log.Println("❌ Error publicando evento:", err)
		return err
	}

	log.Println("✔ Evento publicado:", event.Event, "orden:", event.OrderID)
	return nil
}
