package restaurant

import "github.com/cuemby/bistro/pkg/menu"

// DeciderName is the stream family tag spec §3 calls "decider" and
// registers events under.
const DeciderName = "Restaurant"

// State is the Restaurant decider's folded state (original_source's
// Restaurant struct). A nil *State means "does not exist yet".
type State struct {
	ID   string
	Name string
	Menu menu.Menu
}

// Command is the sum type of every command this decider accepts.
type Command interface {
	StreamID() string
	isRestaurantCommand()
}

// CreateRestaurant is the intent to create a new restaurant.
type CreateRestaurant struct {
	ID   string
	Name string
	Menu menu.Menu
}

func (c CreateRestaurant) StreamID() string  { return c.ID }
func (CreateRestaurant) isRestaurantCommand() {}

// ChangeMenu is the intent to replace a restaurant's menu.
type ChangeMenu struct {
	ID   string
	Menu menu.Menu
}

func (c ChangeMenu) StreamID() string  { return c.ID }
func (ChangeMenu) isRestaurantCommand() {}

// PlaceOrder is the intent to place an order against a restaurant.
type PlaceOrder struct {
	ID      string
	OrderID string
	Items   []menu.LineItem
}

func (c PlaceOrder) StreamID() string  { return c.ID }
func (PlaceOrder) isRestaurantCommand() {}

// Event is the sum type of every event this decider emits.
type Event interface {
	StreamID() string
	EventName() string
	isRestaurantEvent()
}

// RestaurantCreated records that a new restaurant came into existence.
type RestaurantCreated struct {
	ID   string
	Name string
	Menu menu.Menu
}

func (e RestaurantCreated) StreamID() string { return e.ID }
func (RestaurantCreated) EventName() string  { return "RestaurantCreated" }
func (RestaurantCreated) isRestaurantEvent() {}

// RestaurantNotCreated records a refused CreateRestaurant.
type RestaurantNotCreated struct {
	ID     string
	Name   string
	Menu   menu.Menu
	Reason string
}

func (e RestaurantNotCreated) StreamID() string { return e.ID }
func (RestaurantNotCreated) EventName() string  { return "RestaurantNotCreated" }
func (RestaurantNotCreated) isRestaurantEvent() {}

// RestaurantMenuChanged records a successful ChangeMenu.
type RestaurantMenuChanged struct {
	ID   string
	Menu menu.Menu
}

func (e RestaurantMenuChanged) StreamID() string { return e.ID }
func (RestaurantMenuChanged) EventName() string  { return "RestaurantMenuChanged" }
func (RestaurantMenuChanged) isRestaurantEvent() {}

// RestaurantMenuNotChanged records a refused ChangeMenu.
type RestaurantMenuNotChanged struct {
	ID     string
	Menu   menu.Menu
	Reason string
}

func (e RestaurantMenuNotChanged) StreamID() string { return e.ID }
func (RestaurantMenuNotChanged) EventName() string  { return "RestaurantMenuNotChanged" }
func (RestaurantMenuNotChanged) isRestaurantEvent() {}

// OrderPlaced records a successful PlaceOrder. It lives on the Restaurant
// stream; the Order saga reacts to it to create the Order stream.
type OrderPlaced struct {
	ID      string
	OrderID string
	Items   []menu.LineItem
}

func (e OrderPlaced) StreamID() string { return e.ID }
func (OrderPlaced) EventName() string  { return "OrderPlaced" }
func (OrderPlaced) isRestaurantEvent() {}

// OrderNotPlaced records a refused PlaceOrder.
type OrderNotPlaced struct {
	ID      string
	OrderID string
	Items   []menu.LineItem
	Reason  string
}

func (e OrderNotPlaced) StreamID() string { return e.ID }
func (OrderNotPlaced) EventName() string  { return "OrderNotPlaced" }
func (OrderNotPlaced) isRestaurantEvent() {}
