package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/voidrunner/voidrunner/internal/core"
)

// ListShips returns all ships owned by the agent.
func (c *Client) ListShips(ctx context.Context) ([]core.Ship, error) {
	resp, err := c.get(ctx, "/my/ships?page=1&limit=20", "update_fleet")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("list ships: %w", resp.DecodeError())
	}

	var ships []core.Ship
	if err := resp.DecodeData(&ships); err != nil {
		return nil, err
	}
	return ships, nil
}

// GetShip returns one ship by symbol.
func (c *Client) GetShip(ctx context.Context, shipSymbol string) (*core.Ship, error) {
	resp, err := c.get(ctx, "/my/ships/"+url.PathEscape(shipSymbol), "get_ship")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("get ship %s: %w", shipSymbol, resp.DecodeError())
	}

	var ship core.Ship
	if err := resp.DecodeData(&ship); err != nil {
		return nil, err
	}
	return &ship, nil
}

type navPayload struct {
	Nav  core.ShipNav  `json:"nav"`
	Fuel core.ShipFuel `json:"fuel"`
}

// OrbitShip moves a docked ship into orbit.
func (c *Client) OrbitShip(ctx context.Context, shipSymbol string) (*core.ShipNav, error) {
	resp, err := c.post(ctx, "/my/ships/"+url.PathEscape(shipSymbol)+"/orbit", "orbit_ship", nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("orbit ship %s: %w", shipSymbol, resp.DecodeError())
	}

	var payload navPayload
	if err := resp.DecodeData(&payload); err != nil {
		return nil, err
	}
	return &payload.Nav, nil
}

// DockShip docks an orbiting ship at its waypoint.
func (c *Client) DockShip(ctx context.Context, shipSymbol string) (*core.ShipNav, error) {
	resp, err := c.post(ctx, "/my/ships/"+url.PathEscape(shipSymbol)+"/dock", "dock_ship", nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("dock ship %s: %w", shipSymbol, resp.DecodeError())
	}

	var payload navPayload
	if err := resp.DecodeData(&payload); err != nil {
		return nil, err
	}
	return &payload.Nav, nil
}

// NavigateShip sends an orbiting ship to a waypoint in its system.
func (c *Client) NavigateShip(ctx context.Context, shipSymbol, waypointSymbol string) (*core.ShipNav, error) {
	body := struct {
		WaypointSymbol string `json:"waypointSymbol"`
	}{WaypointSymbol: waypointSymbol}

	resp, err := c.post(ctx, "/my/ships/"+url.PathEscape(shipSymbol)+"/navigate", "navigate_ship", body)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("navigate ship %s to %s: %w", shipSymbol, waypointSymbol, resp.DecodeError())
	}

	var payload navPayload
	if err := resp.DecodeData(&payload); err != nil {
		return nil, err
	}
	return &payload.Nav, nil
}

// RefuelShip refuels a docked ship.
func (c *Client) RefuelShip(ctx context.Context, shipSymbol string) (*core.ShipFuel, error) {
	resp, err := c.post(ctx, "/my/ships/"+url.PathEscape(shipSymbol)+"/refuel", "refuel_ship", nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("refuel ship %s: %w", shipSymbol, resp.DecodeError())
	}

	payload := struct {
		Agent core.Agent    `json:"agent"`
		Fuel  core.ShipFuel `json:"fuel"`
	}{}
	if err := resp.DecodeData(&payload); err != nil {
		return nil, err
	}
	return &payload.Fuel, nil
}

// GetShipCooldown returns the ship's active cooldown, or nil when the
// ship has none (the server answers 204).
func (c *Client) GetShipCooldown(ctx context.Context, shipSymbol string) (*core.Cooldown, error) {
	resp, err := c.get(ctx, "/my/ships/"+url.PathEscape(shipSymbol)+"/cooldown", "get_ship_cooldown")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get cooldown for %s: %w", shipSymbol, resp.DecodeError())
	}

	var cooldown core.Cooldown
	if err := resp.DecodeData(&cooldown); err != nil {
		return nil, err
	}
	return &cooldown, nil
}

// SurveyResult is the payload of a create-survey operation.
type SurveyResult struct {
	Cooldown core.Cooldown `json:"cooldown"`
	Surveys  []core.Survey `json:"surveys"`
}

// CreateSurvey surveys the ship's current waypoint for resource deposits.
func (c *Client) CreateSurvey(ctx context.Context, shipSymbol string) (*SurveyResult, error) {
	resp, err := c.post(ctx, "/my/ships/"+url.PathEscape(shipSymbol)+"/survey", "create_survey", nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("create survey with %s: %w", shipSymbol, resp.DecodeError())
	}

	var result SurveyResult
	if err := resp.DecodeData(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExtractResult is the payload of an extract-resources operation.
type ExtractResult struct {
	Cooldown   core.Cooldown   `json:"cooldown"`
	Extraction core.Extraction `json:"extraction"`
	Cargo      core.ShipCargo  `json:"cargo"`
}

// ExtractResources mines the ship's current waypoint. A survey, when
// provided, targets its deposits.
func (c *Client) ExtractResources(ctx context.Context, shipSymbol string, survey *core.Survey) (*ExtractResult, error) {
	var body any
	if survey != nil {
		body = struct {
			Survey core.Survey `json:"survey"`
		}{Survey: *survey}
	}

	resp, err := c.post(ctx, "/my/ships/"+url.PathEscape(shipSymbol)+"/extract", "extract_resources", body)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("extract with %s: %w", shipSymbol, resp.DecodeError())
	}

	var result ExtractResult
	if err := resp.DecodeData(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Jettison dumps cargo overboard.
func (c *Client) Jettison(ctx context.Context, shipSymbol, tradeSymbol string, units int) (*core.ShipCargo, error) {
	body := struct {
		Symbol string `json:"symbol"`
		Units  int    `json:"units"`
	}{Symbol: tradeSymbol, Units: units}

	resp, err := c.post(ctx, "/my/ships/"+url.PathEscape(shipSymbol)+"/jettison", "jettison_cargo", body)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("jettison %s from %s: %w", tradeSymbol, shipSymbol, resp.DecodeError())
	}

	payload := struct {
		Cargo core.ShipCargo `json:"cargo"`
	}{}
	if err := resp.DecodeData(&payload); err != nil {
		return nil, err
	}
	return &payload.Cargo, nil
}

// TradeResult is the payload of a cargo purchase or sale.
type TradeResult struct {
	Agent       core.Agent             `json:"agent"`
	Cargo       core.ShipCargo         `json:"cargo"`
	Transaction core.MarketTransaction `json:"transaction"`
}

// SellCargo sells cargo at the ship's current market.
func (c *Client) SellCargo(ctx context.Context, shipSymbol, tradeSymbol string, units int) (*TradeResult, error) {
	body := struct {
		Symbol string `json:"symbol"`
		Units  int    `json:"units"`
	}{Symbol: tradeSymbol, Units: units}

	resp, err := c.post(ctx, "/my/ships/"+url.PathEscape(shipSymbol)+"/sell", "sell_cargo", body)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("sell %s from %s: %w", tradeSymbol, shipSymbol, resp.DecodeError())
	}

	var result TradeResult
	if err := resp.DecodeData(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PurchaseCargo buys cargo at the ship's current market.
func (c *Client) PurchaseCargo(ctx context.Context, shipSymbol, tradeSymbol string, units int) (*TradeResult, error) {
	body := struct {
		Symbol string `json:"symbol"`
		Units  int    `json:"units"`
	}{Symbol: tradeSymbol, Units: units}

	resp, err := c.post(ctx, "/my/ships/"+url.PathEscape(shipSymbol)+"/purchase", "purchase_cargo", body)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("purchase %s for %s: %w", tradeSymbol, shipSymbol, resp.DecodeError())
	}

	var result TradeResult
	if err := resp.DecodeData(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TransferCargo moves cargo to another ship at the same waypoint.
func (c *Client) TransferCargo(ctx context.Context, fromShip, toShip, tradeSymbol string, units int) (*core.ShipCargo, error) {
	body := struct {
		TradeSymbol string `json:"tradeSymbol"`
		Units       int    `json:"units"`
		ShipSymbol  string `json:"shipSymbol"`
	}{TradeSymbol: tradeSymbol, Units: units, ShipSymbol: toShip}

	resp, err := c.post(ctx, "/my/ships/"+url.PathEscape(fromShip)+"/transfer", "transfer_cargo", body)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("transfer %s from %s to %s: %w", tradeSymbol, fromShip, toShip, resp.DecodeError())
	}

	payload := struct {
		Cargo core.ShipCargo `json:"cargo"`
	}{}
	if err := resp.DecodeData(&payload); err != nil {
		return nil, err
	}
	return &payload.Cargo, nil
}

// GetMounts lists the mounts installed on a ship.
func (c *Client) GetMounts(ctx context.Context, shipSymbol string) ([]core.ShipMount, error) {
	resp, err := c.get(ctx, "/my/ships/"+url.PathEscape(shipSymbol)+"/mounts", "get_mounts")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("get mounts for %s: %w", shipSymbol, resp.DecodeError())
	}

	var mounts []core.ShipMount
	if err := resp.DecodeData(&mounts); err != nil {
		return nil, err
	}
	return mounts, nil
}

// InstallMount installs a mount held in the ship's cargo.
func (c *Client) InstallMount(ctx context.Context, shipSymbol, mountSymbol string) ([]core.ShipMount, error) {
	body := struct {
		Symbol string `json:"symbol"`
	}{Symbol: mountSymbol}

	resp, err := c.post(ctx, "/my/ships/"+url.PathEscape(shipSymbol)+"/mounts/install", "install_mount", body)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("install mount %s on %s: %w", mountSymbol, shipSymbol, resp.DecodeError())
	}

	payload := struct {
		Mounts []core.ShipMount `json:"mounts"`
	}{}
	if err := resp.DecodeData(&payload); err != nil {
		return nil, err
	}
	return payload.Mounts, nil
}

// PurchaseShip buys a ship at a shipyard waypoint.
func (c *Client) PurchaseShip(ctx context.Context, shipType, waypointSymbol string) (*core.Ship, error) {
	body := struct {
		ShipType       string `json:"shipType"`
		WaypointSymbol string `json:"waypointSymbol"`
	}{ShipType: shipType, WaypointSymbol: waypointSymbol}

	resp, err := c.post(ctx, "/my/ships", "purchase_ship", body)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("purchase ship %s at %s: %w", shipType, waypointSymbol, resp.DecodeError())
	}

	payload := struct {
		Agent core.Agent `json:"agent"`
		Ship  core.Ship  `json:"ship"`
	}{}
	if err := resp.DecodeData(&payload); err != nil {
		return nil, err
	}
	return &payload.Ship, nil
}
