package core

import "time"

// NavStatus describes where a ship is relative to its waypoint.
type NavStatus string

const (
	NavStatusInTransit NavStatus = "IN_TRANSIT"
	NavStatusInOrbit   NavStatus = "IN_ORBIT"
	NavStatusDocked    NavStatus = "DOCKED"
)

// Agent is the player-owned agent record.
type Agent struct {
	Symbol          string `json:"symbol"`
	Headquarters    string `json:"headquarters"`
	Credits         int64  `json:"credits"`
	StartingFaction string `json:"startingFaction"`
	ShipCount       int    `json:"shipCount"`
}

// Ship is one owned vessel with its navigation and cargo state.
type Ship struct {
	Symbol       string           `json:"symbol"`
	Registration ShipRegistration `json:"registration"`
	Nav          ShipNav          `json:"nav"`
	Frame        ShipFrame        `json:"frame"`
	Mounts       []ShipMount      `json:"mounts"`
	Cargo        ShipCargo        `json:"cargo"`
	Fuel         ShipFuel         `json:"fuel"`
}

// ShipRegistration carries the ship's assigned role.
type ShipRegistration struct {
	Name          string `json:"name"`
	FactionSymbol string `json:"factionSymbol"`
	Role          string `json:"role"`
}

// ShipNav is the navigation block of a ship.
type ShipNav struct {
	SystemSymbol   string       `json:"systemSymbol"`
	WaypointSymbol string       `json:"waypointSymbol"`
	Route          ShipNavRoute `json:"route"`
	Status         NavStatus    `json:"status"`
	FlightMode     string       `json:"flightMode"`
}

// ShipNavRoute describes an in-progress transit.
type ShipNavRoute struct {
	DepartureTime time.Time `json:"departureTime"`
	Arrival       time.Time `json:"arrival"`
}

// ShipFrame identifies the hull type.
type ShipFrame struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// ShipMount is an installed mount (mining lasers, surveyors, etc.).
type ShipMount struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// ShipCargo is the cargo hold inventory.
type ShipCargo struct {
	Capacity  int         `json:"capacity"`
	Units     int         `json:"units"`
	Inventory []CargoItem `json:"inventory"`
}

// CargoItem is one stacked good in a cargo hold.
type CargoItem struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Units  int    `json:"units"`
}

// ShipFuel tracks the current fuel level.
type ShipFuel struct {
	Current  int `json:"current"`
	Capacity int `json:"capacity"`
}

// Cooldown is the reactor cooldown after survey/extract actions.
type Cooldown struct {
	ShipSymbol       string    `json:"shipSymbol"`
	TotalSeconds     int       `json:"totalSeconds"`
	RemainingSeconds int       `json:"remainingSeconds"`
	Expiration       time.Time `json:"expiration"`
}

// Contract is a faction contract with delivery terms.
type Contract struct {
	ID               string        `json:"id"`
	FactionSymbol    string        `json:"factionSymbol"`
	Type             string        `json:"type"`
	Terms            ContractTerms `json:"terms"`
	Accepted         bool          `json:"accepted"`
	Fulfilled        bool          `json:"fulfilled"`
	DeadlineToAccept time.Time     `json:"deadlineToAccept"`
}

// ContractTerms holds the payment schedule and delivery requirements.
type ContractTerms struct {
	Deadline time.Time          `json:"deadline"`
	Payment  ContractPayment    `json:"payment"`
	Deliver  []ContractDelivery `json:"deliver"`
}

// ContractPayment is the credit payout split.
type ContractPayment struct {
	OnAccepted  int64 `json:"onAccepted"`
	OnFulfilled int64 `json:"onFulfilled"`
}

// ContractDelivery is one required shipment.
type ContractDelivery struct {
	TradeSymbol       string `json:"tradeSymbol"`
	DestinationSymbol string `json:"destinationSymbol"`
	UnitsRequired     int    `json:"unitsRequired"`
	UnitsFulfilled    int    `json:"unitsFulfilled"`
}

// Remaining reports how many units the delivery still needs.
func (d ContractDelivery) Remaining() int {
	remaining := d.UnitsRequired - d.UnitsFulfilled
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Survey is a resource survey of a waypoint, valid until Expiration.
type Survey struct {
	Signature  string          `json:"signature"`
	Symbol     string          `json:"symbol"`
	Deposits   []SurveyDeposit `json:"deposits"`
	Expiration time.Time       `json:"expiration"`
	Size       string          `json:"size"`
}

// SurveyDeposit is one deposit observed by a survey.
type SurveyDeposit struct {
	Symbol string `json:"symbol"`
}

// Extraction is the yield of one extract operation.
type Extraction struct {
	ShipSymbol string          `json:"shipSymbol"`
	Yield      ExtractionYield `json:"yield"`
}

// ExtractionYield is the extracted good and quantity.
type ExtractionYield struct {
	Symbol string `json:"symbol"`
	Units  int    `json:"units"`
}

// Market is the trade listing at a waypoint.
type Market struct {
	Symbol     string            `json:"symbol"`
	TradeGoods []MarketTradeGood `json:"tradeGoods"`
}

// MarketTradeGood is one good traded at a market.
type MarketTradeGood struct {
	Symbol        string `json:"symbol"`
	Type          string `json:"type"`
	TradeVolume   int    `json:"tradeVolume"`
	Supply        string `json:"supply"`
	Activity      string `json:"activity"`
	PurchasePrice int    `json:"purchasePrice"`
	SellPrice     int    `json:"sellPrice"`
}

// System is a star system containing waypoints.
type System struct {
	Symbol       string           `json:"symbol"`
	SectorSymbol string           `json:"sectorSymbol"`
	Type         string           `json:"type"`
	X            int              `json:"x"`
	Y            int              `json:"y"`
	Waypoints    []SystemWaypoint `json:"waypoints"`
}

// SystemWaypoint is the compact waypoint listing embedded in a system.
type SystemWaypoint struct {
	Symbol string `json:"symbol"`
	Type   string `json:"type"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// Waypoint is a location within a system.
type Waypoint struct {
	Symbol       string          `json:"symbol"`
	Type         string          `json:"type"`
	SystemSymbol string          `json:"systemSymbol"`
	X            int             `json:"x"`
	Y            int             `json:"y"`
	Traits       []WaypointTrait `json:"traits"`
}

// WaypointTrait tags a waypoint (MARKETPLACE, SHIPYARD, ...).
type WaypointTrait struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// HasTrait reports whether the waypoint carries the given trait symbol.
func (w Waypoint) HasTrait(symbol string) bool {
	for _, trait := range w.Traits {
		if trait.Symbol == symbol {
			return true
		}
	}
	return false
}

// Shipyard lists ships purchasable at a waypoint.
type Shipyard struct {
	Symbol    string             `json:"symbol"`
	ShipTypes []ShipyardShipType `json:"shipTypes"`
	Ships     []ShipyardShip     `json:"ships"`
}

// ShipyardShipType is a purchasable hull type.
type ShipyardShipType struct {
	Type string `json:"type"`
}

// ShipyardShip is a concrete listing with its price.
type ShipyardShip struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	PurchasePrice int64  `json:"purchasePrice"`
}

// MarketTransaction records a cargo purchase or sale.
type MarketTransaction struct {
	WaypointSymbol string    `json:"waypointSymbol"`
	ShipSymbol     string    `json:"shipSymbol"`
	TradeSymbol    string    `json:"tradeSymbol"`
	Type           string    `json:"type"`
	Units          int       `json:"units"`
	PricePerUnit   int       `json:"pricePerUnit"`
	TotalPrice     int64     `json:"totalPrice"`
	Timestamp      time.Time `json:"timestamp"`
}

// Registration is the payload returned by agent registration.
type Registration struct {
	Token    string   `json:"token"`
	Agent    Agent    `json:"agent"`
	Contract Contract `json:"contract"`
	Ship     Ship     `json:"ship"`
}
