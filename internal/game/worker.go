package game

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/thefirstspine/arena-server-go/internal/catalog"
	"github.com/thefirstspine/arena-server-go/internal/notify"
	"github.com/thefirstspine/arena-server-go/internal/rooms"
	"github.com/thefirstspine/arena-server-go/internal/wizard"
)

// Services bundles the collaborators shared by workers and hooks. The
// Hooks and Workers fields are filled right after construction because
// both sides need each other.
type Services struct {
	Log      *zap.Logger
	Rooms    *rooms.Broadcaster
	Notify   notify.Notifier
	Catalog  *catalog.Service
	Quests   *wizard.Service
	Accounts wizard.AccountStore
	Hooks    *Dispatcher
	Workers  *Registry

	// ActionTimeout is the lifetime of the timed actions.
	ActionTimeout time.Duration
	// ConfrontsWindow bounds the archive scan for chained confrontations.
	ConfrontsWindow int
}

// Worker owns the full lifecycle of one action type.
type Worker interface {
	// Type is the action type the worker handles.
	Type() string
	// Create builds a fresh pending action for the user.
	Create(ctx context.Context, inst *Instance, user int) (*Action, error)
	// Refresh recomputes the interaction parameters of a pending action
	// after the instance changed.
	Refresh(ctx context.Context, inst *Instance, action *Action) error
	// Execute applies a responded action. It returns false when the
	// response is invalid and the action must stay pending.
	Execute(ctx context.Context, inst *Instance, action *Action) (bool, error)
	// Expires is called when the action outlives its deadline. It fills a
	// default response and returns true when Execute must run with it.
	Expires(ctx context.Context, inst *Instance, action *Action) (bool, error)
	// Delete is called when the action leaves the pending pool, after a
	// successful Execute or when another worker retires it.
	Delete(ctx context.Context, inst *Instance, action *Action) error
}

// Registry resolves workers by action type.
type Registry struct {
	workers map[string]Worker
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{workers: make(map[string]Worker)}
}

// Register adds a worker. Registering the same type twice is a
// programming error.
func (r *Registry) Register(w Worker) {
	if _, ok := r.workers[w.Type()]; ok {
		panic(fmt.Sprintf("worker %q registered twice", w.Type()))
	}
	r.workers[w.Type()] = w
}

// Get returns the worker for an action type.
func (r *Registry) Get(actionType string) (Worker, error) {
	w, ok := r.workers[actionType]
	if !ok {
		return nil, fmt.Errorf("no worker for action type %q", actionType)
	}
	return w, nil
}

// CreateAction builds an action through its worker and appends it to the
// pending pool.
func (r *Registry) CreateAction(ctx context.Context, inst *Instance, actionType string, user int) (*Action, error) {
	w, err := r.Get(actionType)
	if err != nil {
		return nil, err
	}
	action, err := w.Create(ctx, inst, user)
	if err != nil {
		return nil, fmt.Errorf("create %s for user %d: %w", actionType, user, err)
	}
	inst.Actions.Current = append(inst.Actions.Current, action)
	return action, nil
}

// RetireAction runs the worker's Delete on a pending action and archives
// it without a response. Retiring an action that already left the pool is
// a no-op.
func (r *Registry) RetireAction(ctx context.Context, inst *Instance, action *Action) error {
	if !removeCurrentAction(inst, action) {
		return nil
	}
	w, err := r.Get(action.Type)
	if err != nil {
		return err
	}
	archiveAction(inst, action)
	if err := w.Delete(ctx, inst, action); err != nil {
		return fmt.Errorf("delete %s: %w", action.Type, err)
	}
	return nil
}

// ConcludeAction archives a successfully executed action and runs the
// worker's Delete. Archiving happens first so Delete sees the resolved
// action in the archive.
func (r *Registry) ConcludeAction(ctx context.Context, inst *Instance, action *Action) error {
	removeCurrentAction(inst, action)
	w, err := r.Get(action.Type)
	if err != nil {
		return err
	}
	archiveAction(inst, action)
	if err := w.Delete(ctx, inst, action); err != nil {
		return fmt.Errorf("delete %s: %w", action.Type, err)
	}
	return nil
}

// RefreshAll recomputes the interaction parameters of every pending
// action after the instance changed.
func (r *Registry) RefreshAll(ctx context.Context, inst *Instance) {
	for _, action := range append([]*Action(nil), inst.Actions.Current...) {
		w, err := r.Get(action.Type)
		if err != nil {
			continue
		}
		if err := w.Refresh(ctx, inst, action); err != nil {
			// A stale interaction is better than a dropped turn.
			continue
		}
	}
}

// MaxPriority returns the highest priority among the pending actions of a
// user. Actions below it are masked from the client.
func MaxPriority(inst *Instance, user int) int {
	max := 0
	for _, a := range inst.Actions.Current {
		if a.User == user && a.Priority > max {
			max = a.Priority
		}
	}
	return max
}

// VisibleActions returns the pending actions of a user at the user's
// highest priority, sorted by creation time.
func VisibleActions(inst *Instance, user int) []*Action {
	max := MaxPriority(inst, user)
	var out []*Action
	for _, a := range inst.Actions.Current {
		if a.User == user && a.Priority == max {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func removeCurrentAction(inst *Instance, action *Action) bool {
	for i, a := range inst.Actions.Current {
		if a == action {
			inst.Actions.Current = append(inst.Actions.Current[:i], inst.Actions.Current[i+1:]...)
			return true
		}
	}
	return false
}

func archiveAction(inst *Instance, action *Action) {
	inst.Actions.Previous = append(inst.Actions.Previous, &PassedAction{
		Type:        action.Type,
		User:        action.User,
		Description: action.Description,
		Priority:    action.Priority,
		Response:    action.Interaction.Response,
		CreatedAt:   action.CreatedAt,
		ExpiresAt:   action.ExpiresAt,
		PassedAt:    time.Now(),
	})
}
