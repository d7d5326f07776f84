package game

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/voidrunner/voidrunner/internal/core"
	"github.com/voidrunner/voidrunner/internal/core/api"
)

// ContractManager caches the agent's contracts and drives their
// lifecycle: accept, deliver, fulfill.
type ContractManager struct {
	Client *api.Client
	Logger *zap.Logger

	mu        sync.Mutex
	contracts map[string]core.Contract
}

// UpdateContracts refreshes the cached contract list.
func (m *ContractManager) UpdateContracts(ctx context.Context) error {
	contracts, err := m.Client.ListContracts(ctx)
	if err != nil {
		return fmt.Errorf("update contracts: %w", err)
	}

	m.mu.Lock()
	m.contracts = make(map[string]core.Contract, len(contracts))
	for _, contract := range contracts {
		m.contracts[contract.ID] = contract
	}
	m.mu.Unlock()

	if m.Logger != nil {
		m.Logger.Info("contracts updated", zap.Int("contracts", len(contracts)))
	}
	return nil
}

// Contracts returns a snapshot of the cached contracts.
func (m *ContractManager) Contracts() []core.Contract {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Contract, 0, len(m.contracts))
	for _, contract := range m.contracts {
		out = append(out, contract)
	}
	return out
}

// Accept accepts a contract and updates the cache.
func (m *ContractManager) Accept(ctx context.Context, contractID string) error {
	contract, err := m.Client.AcceptContract(ctx, contractID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.contracts == nil {
		m.contracts = make(map[string]core.Contract)
	}
	m.contracts[contract.ID] = *contract
	m.mu.Unlock()

	if m.Logger != nil {
		m.Logger.Info("accepted contract", zap.String("contract", contractID))
	}
	return nil
}

// Deliver delivers cargo from a ship toward a contract.
func (m *ContractManager) Deliver(ctx context.Context, contractID, shipSymbol, tradeSymbol string, units int) error {
	result, err := m.Client.DeliverContract(ctx, contractID, shipSymbol, tradeSymbol, units)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.contracts == nil {
		m.contracts = make(map[string]core.Contract)
	}
	m.contracts[result.Contract.ID] = result.Contract
	m.mu.Unlock()

	if m.Logger != nil {
		m.Logger.Info("delivered cargo",
			zap.String("contract", contractID),
			zap.String("ship", shipSymbol),
			zap.String("good", tradeSymbol),
			zap.Int("units", units))
	}
	return nil
}

// Fulfill closes a fully delivered contract.
func (m *ContractManager) Fulfill(ctx context.Context, contractID string) error {
	contract, err := m.Client.FulfillContract(ctx, contractID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.contracts == nil {
		m.contracts = make(map[string]core.Contract)
	}
	m.contracts[contract.ID] = *contract
	m.mu.Unlock()

	if m.Logger != nil {
		m.Logger.Info("fulfilled contract", zap.String("contract", contractID))
	}
	return nil
}

// Process runs one pass over a contract: accept it when unaccepted, or
// fulfill it when every delivery term is satisfied.
func (m *ContractManager) Process(ctx context.Context, contract core.Contract) error {
	if !contract.Accepted {
		return m.Accept(ctx, contract.ID)
	}
	if contract.Fulfilled {
		return nil
	}

	// Refresh before fulfilling so remote delivery progress counts.
	current, err := m.Client.GetContract(ctx, contract.ID)
	if err != nil {
		return err
	}

	for _, delivery := range current.Terms.Deliver {
		if delivery.Remaining() > 0 {
			return nil
		}
	}
	return m.Fulfill(ctx, current.ID)
}
