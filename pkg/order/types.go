package order

import "github.com/cuemby/bistro/pkg/menu"

// DeciderName is the stream family tag this decider registers events
// under.
const DeciderName = "Order"

// Status is the Order's lifecycle status.
type Status string

const (
	StatusCreated   Status = "Created"
	StatusPrepared  Status = "Prepared"
	StatusCancelled Status = "Cancelled"
)

// State is the Order decider's folded state. A nil *State means "does
// not exist yet".
type State struct {
	ID           string
	RestaurantID string
	Status       Status
	Items        []menu.LineItem
}

// Command is the sum type of every command this decider accepts.
type Command interface {
	StreamID() string
	isOrderCommand()
}

// CreateOrder is the intent to create a new order, typically issued by
// the order saga reacting to a Restaurant's OrderPlaced.
type CreateOrder struct {
	ID           string
	RestaurantID string
	Items        []menu.LineItem
}

func (c CreateOrder) StreamID() string { return c.ID }
func (CreateOrder) isOrderCommand()     {}

// MarkOrderAsPrepared is the intent to mark a Created order as Prepared.
type MarkOrderAsPrepared struct {
	ID string
}

func (c MarkOrderAsPrepared) StreamID() string { return c.ID }
func (MarkOrderAsPrepared) isOrderCommand()     {}

// CancelOrder is the intent to cancel an order that has not yet been
// prepared.
type CancelOrder struct {
	ID string
}

func (c CancelOrder) StreamID() string { return c.ID }
func (CancelOrder) isOrderCommand()     {}

// Event is the sum type of every event this decider emits.
type Event interface {
	StreamID() string
	EventName() string
	isOrderEvent()
}

// OrderCreated records that a new order came into existence.
type OrderCreated struct {
	ID           string
	RestaurantID string
	Status       Status
	Items        []menu.LineItem
}

func (e OrderCreated) StreamID() string { return e.ID }
func (OrderCreated) EventName() string  { return "OrderCreated" }
func (OrderCreated) isOrderEvent()      {}

// OrderNotCreated records a refused CreateOrder.
type OrderNotCreated struct {
	ID           string
	RestaurantID string
	Items        []menu.LineItem
	Reason       string
}

func (e OrderNotCreated) StreamID() string { return e.ID }
func (OrderNotCreated) EventName() string  { return "OrderNotCreated" }
func (OrderNotCreated) isOrderEvent()      {}

// OrderPrepared records a successful MarkOrderAsPrepared.
type OrderPrepared struct {
	ID     string
	Status Status
}

func (e OrderPrepared) StreamID() string { return e.ID }
func (OrderPrepared) EventName() string  { return "OrderPrepared" }
func (OrderPrepared) isOrderEvent()      {}

// OrderNotPrepared records a refused MarkOrderAsPrepared.
type OrderNotPrepared struct {
	ID     string
	Reason string
}

func (e OrderNotPrepared) StreamID() string { return e.ID }
func (OrderNotPrepared) EventName() string  { return "OrderNotPrepared" }
func (OrderNotPrepared) isOrderEvent()      {}

// OrderCancelled records a successful CancelOrder.
type OrderCancelled struct {
	ID     string
	Status Status
}

func (e OrderCancelled) StreamID() string { return e.ID }
func (OrderCancelled) EventName() string  { return "OrderCancelled" }
func (OrderCancelled) isOrderEvent()      {}

// OrderNotCancelled records a refused CancelOrder.
type OrderNotCancelled struct {
	ID     string
	Reason string
}

func (e OrderNotCancelled) StreamID() string { return e.ID }
func (OrderNotCancelled) EventName() string  { return "OrderNotCancelled" }
func (OrderNotCancelled) isOrderEvent()      {}
