package player

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/siren/internal/models"
	"github.com/desertthunder/siren/internal/shared"
)

// Surface is a live presentation panel.
type Surface interface {
	// ID identifies the surface for logging and stale-close detection.
	ID() string
	// Post queues msg for the surface without blocking. It returns false when the message was dropped.
	Post(msg Message) bool
	// Reveal brings the surface to the front.
	Reveal()
}

// PanelHost creates surfaces.
//
// CreatePanel must not call back into the controller before it returns. The surface reports later events through
// [Controller.Receive] and [Controller.Closed].
type PanelHost interface {
	CreatePanel(ctx context.Context, payload RenderPayload, c *Controller) (Surface, error)
}

// Store is the persisted "last played" slot.
type Store interface {
	Get() (*models.PlayerState, error)
	Set(state models.PlayerState) error
	SetVolume(v float64) error
}

// RenderPayload is everything a new surface needs for its first render.
type RenderPayload struct {
	Title string
	State models.PlayerState
}

// NewRenderPayload builds the initial payload for state.
func NewRenderPayload(state models.PlayerState) RenderPayload {
	return RenderPayload{Title: state.Title(), State: state}
}

// Controller owns at most one [Surface] and routes its messages to the [Store].
type Controller struct {
	host   PanelHost
	store  Store
	logger *log.Logger

	mu      sync.Mutex
	surface Surface
	done    chan struct{}
}

// NewController creates a Closed controller.
func NewController(host PanelHost, store Store, logger *log.Logger) *Controller {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Controller{host: host, store: store, logger: logger}
}

// Open shows state in the panel.
//
// When a surface is already open it is revealed and receives a play message. Otherwise a new surface is created
// from the host with state as its initial payload.
func (c *Controller) Open(ctx context.Context, state models.PlayerState) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.surface != nil {
		c.surface.Reveal()
		if !c.surface.Post(Play(state)) {
			c.logger.Warn("play message dropped", "panel", c.surface.ID(), "name", state.Name)
		}
		return nil
	}

	surface, err := c.host.CreatePanel(ctx, NewRenderPayload(state), c)
	if err != nil {
		return fmt.Errorf("failed to create player panel: %w", err)
	}

	c.surface = surface
	c.done = make(chan struct{})
	c.logger.Info("player panel opened", "panel", surface.ID(), "name", state.Name)
	return nil
}

// Closed records that surface was closed by the user. The store is left untouched.
//
// Reports from a surface that is no longer the current one are ignored.
func (c *Controller) Closed(surface Surface) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if surface == nil || c.surface != surface {
		return
	}

	c.logger.Info("player panel closed", "panel", surface.ID())
	c.surface = nil
	close(c.done)
}

// Receive handles a message from surface.
func (c *Controller) Receive(ctx context.Context, surface Surface, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if surface == nil || c.surface != surface {
		c.logger.Debug("ignoring message from stale panel", "type", msg.Type)
		return nil
	}

	switch msg.Type {
	case TypeUpdateState:
		if err := c.store.Set(*msg.State); err != nil {
			return fmt.Errorf("failed to persist player state: %w", err)
		}
	case TypeGetState:
		state, err := c.store.Get()
		if err != nil {
			return fmt.Errorf("failed to read player state: %w", err)
		}
		if state == nil {
			return nil
		}
		if !surface.Post(RestoreState(*state)) {
			c.logger.Warn("restoreState message dropped", "panel", surface.ID())
		}
	case TypeSetVolume:
		if err := c.store.SetVolume(*msg.Value); err != nil {
			return fmt.Errorf("failed to persist volume: %w", err)
		}
	default:
		return fmt.Errorf("%w: %s is not accepted from a panel", shared.ErrInvalidInput, msg.Type)
	}
	return nil
}

// Restore opens the panel from the persisted slot. It reports false when there is nothing to restore.
func (c *Controller) Restore(ctx context.Context) (bool, error) {
	state, err := c.store.Get()
	if err != nil {
		return false, fmt.Errorf("failed to read player state: %w", err)
	}
	if state == nil {
		return false, nil
	}

	if err := c.Open(ctx, *state); err != nil {
		return false, err
	}
	return true, nil
}

// IsOpen reports whether a surface is live.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surface != nil
}

// Wait blocks until the controller is Closed or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	if c.surface == nil {
		c.mu.Unlock()
		return nil
	}
	done := c.done
	c.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
