package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/voidrunner/voidrunner/internal/core"
)

// ListSystems returns one page of known systems.
func (c *Client) ListSystems(ctx context.Context, page, limit int) ([]core.System, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 20 {
		limit = 20
	}

	resp, err := c.get(ctx, fmt.Sprintf("/systems?page=%d&limit=%d", page, limit), "list_systems")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("list systems: %w", resp.DecodeError())
	}

	var systems []core.System
	if err := resp.DecodeData(&systems); err != nil {
		return nil, err
	}
	return systems, nil
}

// ListWaypoints returns the waypoints of a system, optionally filtered
// by trait (MARKETPLACE, SHIPYARD, ...).
func (c *Client) ListWaypoints(ctx context.Context, systemSymbol, trait string) ([]core.Waypoint, error) {
	path := "/systems/" + url.PathEscape(systemSymbol) + "/waypoints?page=1&limit=20"
	if trait != "" {
		path += "&traits=" + url.QueryEscape(trait)
	}

	resp, err := c.get(ctx, path, "list_waypoints")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("list waypoints in %s: %w", systemSymbol, resp.DecodeError())
	}

	var waypoints []core.Waypoint
	if err := resp.DecodeData(&waypoints); err != nil {
		return nil, err
	}
	return waypoints, nil
}

// GetWaypoint returns one waypoint.
func (c *Client) GetWaypoint(ctx context.Context, systemSymbol, waypointSymbol string) (*core.Waypoint, error) {
	path := "/systems/" + url.PathEscape(systemSymbol) + "/waypoints/" + url.PathEscape(waypointSymbol)
	resp, err := c.get(ctx, path, "get_waypoint")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("get waypoint %s: %w", waypointSymbol, resp.DecodeError())
	}

	var waypoint core.Waypoint
	if err := resp.DecodeData(&waypoint); err != nil {
		return nil, err
	}
	return &waypoint, nil
}

// GetMarket returns market data for a waypoint. Trade goods are only
// present when the agent has a ship there.
func (c *Client) GetMarket(ctx context.Context, systemSymbol, waypointSymbol string) (*core.Market, error) {
	path := "/systems/" + url.PathEscape(systemSymbol) + "/waypoints/" + url.PathEscape(waypointSymbol) + "/market"
	resp, err := c.get(ctx, path, "get_market")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("get market at %s: %w", waypointSymbol, resp.DecodeError())
	}

	var market core.Market
	if err := resp.DecodeData(&market); err != nil {
		return nil, err
	}
	return &market, nil
}

// GetShipyard returns shipyard data for a waypoint.
func (c *Client) GetShipyard(ctx context.Context, systemSymbol, waypointSymbol string) (*core.Shipyard, error) {
	path := "/systems/" + url.PathEscape(systemSymbol) + "/waypoints/" + url.PathEscape(waypointSymbol) + "/shipyard"
	resp, err := c.get(ctx, path, "get_shipyard")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("get shipyard at %s: %w", waypointSymbol, resp.DecodeError())
	}

	var shipyard core.Shipyard
	if err := resp.DecodeData(&shipyard); err != nil {
		return nil, err
	}
	return &shipyard, nil
}
