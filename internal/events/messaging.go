package events

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange = "ecommerce.events"

	CartItemAddedRoutingKey       = "cart.item.added.v1"
	CartItemRemovedRoutingKey     = "cart.item.removed.v1"
	WishlistItemAddedRoutingKey   = "wishlist.item.added.v1"
	WishlistItemRemovedRoutingKey = "wishlist.item.removed.v1"
	UserRegisteredRoutingKey      = "user.registered.v1"

	Producer = "storefront-service"
)

func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

func declareEventsExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}
