package statemachine

import (
	"context"
	"fmt"

	"github.com/dcastellanos/obrax-api/internal/models"
	"github.com/looplab/fsm"
)

// ContractFSM wraps a contract with its state machine
type ContractFSM struct {
	contract *models.Contract
	fsm      *fsm.FSM
}

// NewContractFSM creates a new contract state machine
func NewContractFSM(contract *models.Contract) *ContractFSM {
	cffsm := &ContractFSM{
		contract: contract,
	}

	cffsm.fsm = fsm.NewFSM(
		contract.Status,
		fsm.Events{
			// active → on_hold
			{Name: "hold", Src: []string{models.ContractStatusActive}, Dst: models.ContractStatusOnHold},

			// active → completed
			{Name: "complete", Src: []string{models.ContractStatusActive}, Dst: models.ContractStatusCompleted},

			// active → cancelled
			{Name: "cancel", Src: []string{models.ContractStatusActive}, Dst: models.ContractStatusCancelled},

			// on_hold/completed/cancelled → active
			{Name: "reactivate", Src: []string{models.ContractStatusOnHold, models.ContractStatusCompleted, models.ContractStatusCancelled}, Dst: models.ContractStatusActive},
		},
		fsm.Callbacks{},
	)

	return cffsm
}

// Hold transitions contract to on_hold state
func (c *ContractFSM) Hold(ctx context.Context) error {
	if !c.contract.MayHold() {
		return fmt.Errorf("contract cannot be put on hold in current state: %s", c.contract.Status)
	}

	if err := c.fsm.Event(ctx, "hold"); err != nil {
		return fmt.Errorf("failed to put contract on hold: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// Complete transitions contract to completed state
func (c *ContractFSM) Complete(ctx context.Context) error {
	if !c.contract.MayComplete() {
		return fmt.Errorf("contract cannot be completed in current state: %s", c.contract.Status)
	}

	if err := c.fsm.Event(ctx, "complete"); err != nil {
		return fmt.Errorf("failed to complete contract: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// Cancel transitions contract to cancelled state
func (c *ContractFSM) Cancel(ctx context.Context) error {
	if !c.contract.MayCancel() {
		return fmt.Errorf("contract cannot be cancelled in current state: %s", c.contract.Status)
	}

	if err := c.fsm.Event(ctx, "cancel"); err != nil {
		return fmt.Errorf("failed to cancel contract: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// Reactivate transitions contract from any terminal state back to active
func (c *ContractFSM) Reactivate(ctx context.Context) error {
	if !c.contract.MayReactivate() {
		return fmt.Errorf("contract cannot be reactivated in current state: %s", c.contract.Status)
	}

	if err := c.fsm.Event(ctx, "reactivate"); err != nil {
		return fmt.Errorf("failed to reactivate contract: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// Current returns the current state
func (c *ContractFSM) Current() string {
	return c.fsm.Current()
}

// Can checks if a transition is possible
func (c *ContractFSM) Can(event string) bool {
	return c.fsm.Can(event)
}
