package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/voidrunner/voidrunner/internal/core"
)

// ListContracts returns the agent's contracts.
func (c *Client) ListContracts(ctx context.Context) ([]core.Contract, error) {
	resp, err := c.get(ctx, "/my/contracts?page=1&limit=20", "update_contracts")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("list contracts: %w", resp.DecodeError())
	}

	var contracts []core.Contract
	if err := resp.DecodeData(&contracts); err != nil {
		return nil, err
	}
	return contracts, nil
}

// GetContract returns one contract by id.
func (c *Client) GetContract(ctx context.Context, contractID string) (*core.Contract, error) {
	resp, err := c.get(ctx, "/my/contracts/"+url.PathEscape(contractID), "get_contract")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("get contract %s: %w", contractID, resp.DecodeError())
	}

	var contract core.Contract
	if err := resp.DecodeData(&contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// AcceptContract accepts a contract, collecting the up-front payment.
func (c *Client) AcceptContract(ctx context.Context, contractID string) (*core.Contract, error) {
	resp, err := c.post(ctx, "/my/contracts/"+url.PathEscape(contractID)+"/accept", "accept_contract", nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("accept contract %s: %w", contractID, resp.DecodeError())
	}

	payload := struct {
		Agent    core.Agent    `json:"agent"`
		Contract core.Contract `json:"contract"`
	}{}
	if err := resp.DecodeData(&payload); err != nil {
		return nil, err
	}
	return &payload.Contract, nil
}

// DeliverResult is the payload of a contract delivery.
type DeliverResult struct {
	Contract core.Contract  `json:"contract"`
	Cargo    core.ShipCargo `json:"cargo"`
}

// DeliverContract delivers cargo from a docked ship toward a contract.
func (c *Client) DeliverContract(ctx context.Context, contractID, shipSymbol, tradeSymbol string, units int) (*DeliverResult, error) {
	body := struct {
		ShipSymbol  string `json:"shipSymbol"`
		TradeSymbol string `json:"tradeSymbol"`
		Units       int    `json:"units"`
	}{ShipSymbol: shipSymbol, TradeSymbol: tradeSymbol, Units: units}

	resp, err := c.post(ctx, "/my/contracts/"+url.PathEscape(contractID)+"/deliver", "deliver_contract", body)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("deliver %s for contract %s: %w", tradeSymbol, contractID, resp.DecodeError())
	}

	var result DeliverResult
	if err := resp.DecodeData(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FulfillContract closes a fully delivered contract and collects the
// on-fulfilled payment.
func (c *Client) FulfillContract(ctx context.Context, contractID string) (*core.Contract, error) {
	resp, err := c.post(ctx, "/my/contracts/"+url.PathEscape(contractID)+"/fulfill", "fulfill_contract", nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fulfill contract %s: %w", contractID, resp.DecodeError())
	}

	payload := struct {
		Agent    core.Agent    `json:"agent"`
		Contract core.Contract `json:"contract"`
	}{}
	if err := resp.DecodeData(&payload); err != nil {
		return nil, err
	}
	return &payload.Contract, nil
}

// NegotiateContract asks for a new contract via a docked ship.
func (c *Client) NegotiateContract(ctx context.Context, shipSymbol string) (*core.Contract, error) {
	resp, err := c.post(ctx, "/my/ships/"+url.PathEscape(shipSymbol)+"/negotiate/contract", "negotiate_contract", nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("negotiate contract with %s: %w", shipSymbol, resp.DecodeError())
	}

	payload := struct {
		Contract core.Contract `json:"contract"`
	}{}
	if err := resp.DecodeData(&payload); err != nil {
		return nil, err
	}
	return &payload.Contract, nil
}
