package events

import (
	"strconv"
	"time"
)

const (
	EventTypeCartItemAdded       = "CartItemAdded"
	EventTypeCartItemRemoved     = "CartItemRemoved"
	EventTypeWishlistItemAdded   = "WishlistItemAdded"
	EventTypeWishlistItemRemoved = "WishlistItemRemoved"
	EventTypeUserRegistered      = "UserRegistered"
)

type CartItemPayload struct {
	UserID    int64     `json:"userId"`
	ProductID int64     `json:"productId"`
	Quantity  int       `json:"quantity,omitempty"`
	Price     string    `json:"price,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type WishlistItemPayload struct {
	UserID    int64     `json:"userId"`
	ItemID    int64     `json:"itemId"`
	ProductID int64     `json:"productId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type UserRegisteredPayload struct {
	UserID    int64     `json:"userId"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

func partition(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func CartItemAdded(correlationID string, p CartItemPayload) Event {
	return Event{
		Name:          EventTypeCartItemAdded,
		RoutingKey:    CartItemAddedRoutingKey,
		PartitionKey:  partition(p.UserID),
		CorrelationID: correlationID,
		Payload:       p,
	}
}

func CartItemRemoved(correlationID string, p CartItemPayload) Event {
	return Event{
		Name:          EventTypeCartItemRemoved,
		RoutingKey:    CartItemRemovedRoutingKey,
		PartitionKey:  partition(p.UserID),
		CorrelationID: correlationID,
		Payload:       p,
	}
}

func WishlistItemAdded(correlationID string, p WishlistItemPayload) Event {
	return Event{
		Name:          EventTypeWishlistItemAdded,
		RoutingKey:    WishlistItemAddedRoutingKey,
		PartitionKey:  partition(p.UserID),
		CorrelationID: correlationID,
		Payload:       p,
	}
}

func WishlistItemRemoved(correlationID string, p WishlistItemPayload) Event {
	return Event{
		Name:          EventTypeWishlistItemRemoved,
		RoutingKey:    WishlistItemRemovedRoutingKey,
		PartitionKey:  partition(p.UserID),
		CorrelationID: correlationID,
		Payload:       p,
	}
}

func UserRegistered(correlationID string, p UserRegisteredPayload) Event {
	return Event{
		Name:          EventTypeUserRegistered,
		RoutingKey:    UserRegisteredRoutingKey,
		PartitionKey:  partition(p.UserID),
		CorrelationID: correlationID,
		Payload:       p,
	}
}
