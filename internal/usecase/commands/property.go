package commands

//go:generate mockgen -destination=../../../tests/mock/commands/property.go -package=commandsmock stayledger/internal/usecase/commands PropertyCommands

import (
	"context"
	"log/slog"

	"stayledger/internal/domain/booking"
	"stayledger/internal/domain/property"
	"stayledger/internal/pkg/clock"
	"stayledger/internal/usecase/shared"
)

type ListPropertyInput struct {
	ID            string
	Host          booking.Address
	PricePerNight int64
	MetadataURI   string
}

type PropertyResult struct {
	Property *property.Property
	Receipt  *shared.Receipt
}

type PropertyCommands interface {
	ListProperty(ctx context.Context, in ListPropertyInput) (*PropertyResult, error)
	SetPropertyActive(ctx context.Context, id string, caller booking.Address, active bool) (*PropertyResult, error)
}

type propertyCommandsImpl struct {
	uow    shared.UnitOfWork
	clock  clock.Clock
	logger *slog.Logger
}

func NewPropertyCommands(uow shared.UnitOfWork, clk clock.Clock, logger *slog.Logger) PropertyCommands {
	return &propertyCommandsImpl{uow: uow, clock: clk, logger: logger}
}

func (c *propertyCommandsImpl) ListProperty(ctx context.Context, in ListPropertyInput) (*PropertyResult, error) {
	price, err := booking.NewAmount(in.PricePerNight)
	if err != nil {
		return nil, err
	}
	p, err := property.NewProperty(in.ID, in.Host, price, in.MetadataURI, c.clock.Now())
	if err != nil {
		return nil, err
	}

	receipt, err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Properties().Insert(ctx, p); err != nil {
			return err
		}
		tx.Emit(p.PullEvents()...)
		return nil
	})
	if err != nil {
		return nil, ledgerError(err, booking.ErrPropertyNotFound)
	}

	c.logger.Info("property listed", "property_id", p.ID(), "host", p.Host().String(), "height", receipt.Height)
	return &PropertyResult{Property: p, Receipt: receipt}, nil
}

func (c *propertyCommandsImpl) SetPropertyActive(ctx context.Context, id string, caller booking.Address, active bool) (*PropertyResult, error) {
	var p *property.Property
	receipt, err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		p, err = tx.Properties().FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := p.SetActive(caller, active, c.clock.Now()); err != nil {
			return err
		}
		if err := tx.Properties().Update(ctx, p); err != nil {
			return err
		}
		tx.Emit(p.PullEvents()...)
		return nil
	})
	if err != nil {
		return nil, ledgerError(err, booking.ErrPropertyNotFound)
	}

	c.logger.Info("property status changed", "property_id", id, "active", active, "height", receipt.Height)
	return &PropertyResult{Property: p, Receipt: receipt}, nil
}
