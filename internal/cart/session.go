package cart

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/tigraytip/storefront-backend/pkg/errors"
	"github.com/tigraytip/storefront-backend/pkg/logger"
	redisclient "github.com/tigraytip/storefront-backend/pkg/redis"
	"github.com/tigraytip/storefront-backend/pkg/types"
)

// SessionStore is the durable per-session storage for cart snapshots.
// pkg/redis.Client satisfies it.
type SessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	CartKey(sessionID string) string
}

// MirrorStore is the remote cart mirror keyed by user id.
type MirrorStore interface {
	Upsert(ctx context.Context, userID uuid.UUID, items types.CartLines) error
	Fetch(ctx context.Context, userID uuid.UUID) (types.CartLines, error)
}

// Identity resolves the signed-in user, if any. Absence is not an error; it
// just means remote sync is skipped.
type Identity interface {
	CurrentUserID(ctx context.Context) (uuid.UUID, bool)
}

// SessionDeps bundles the collaborators a Session needs.
type SessionDeps struct {
	Store       SessionStore
	Mirror      MirrorStore
	Identity    Identity
	Logger      *logger.Logger
	Pricing     Pricing
	TTL         time.Duration
	SyncTimeout time.Duration
}

// Session binds a cart State to its persistence effects. Every mutation is
// applied to the in-memory state, written through to the session store, and
// then mirrored to the user's record on a best-effort basis. The local state
// stays authoritative: mirror failures are logged and swallowed, and the
// mirror itself is last-write-wins.
type Session struct {
	id   string
	deps SessionDeps

	mu    sync.Mutex
	state State

	syncs sync.WaitGroup
}

// NewSession constructs a cart session for the given session id.
func NewSession(id string, deps SessionDeps) (*Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session id is required")
	}
	if deps.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session store is required")
	}
	if deps.Mirror == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "mirror store is required")
	}
	if deps.Identity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "identity source is required")
	}
	if deps.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	if deps.TTL <= 0 {
		deps.TTL = 30 * 24 * time.Hour
	}
	if deps.SyncTimeout <= 0 {
		deps.SyncTimeout = 5 * time.Second
	}
	return &Session{
		id:    id,
		deps:  deps,
		state: NewState(deps.Pricing),
	}, nil
}

// Open restores the persisted snapshot for this session. A missing key means
// an empty cart; a corrupt snapshot is logged and treated as empty rather
// than failing the session.
func (s *Session) Open(ctx context.Context) {
	ctx = s.deps.Logger.WithCartSessionID(ctx, s.id)

	raw, err := s.deps.Store.Get(ctx, s.deps.Store.CartKey(s.id))
	if err != nil {
		if !errors.Is(err, redisclient.Nil) {
			s.deps.Logger.Warn(ctx, "reading cart snapshot failed, starting empty")
		}
		return
	}

	var lines types.CartLines
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		s.deps.Logger.Warn(ctx, "corrupt cart snapshot, starting empty")
		return
	}

	s.mu.Lock()
	s.state.Lines = lines
	s.mu.Unlock()
}

// AddItem merges the product into the cart.
func (s *Session) AddItem(ctx context.Context, product ProductSummary, qty int) {
	s.mutate(ctx, func(st *State) { st.AddItem(product, qty) })
}

// RemoveItem drops the product's line.
func (s *Session) RemoveItem(ctx context.Context, productID uuid.UUID) {
	s.mutate(ctx, func(st *State) { st.RemoveItem(productID) })
}

// UpdateQuantity sets the absolute quantity; qty <= 0 removes the line.
func (s *Session) UpdateQuantity(ctx context.Context, productID uuid.UUID, qty int) {
	s.mutate(ctx, func(st *State) { st.UpdateQuantity(productID, qty) })
}

// Clear empties the cart.
func (s *Session) Clear(ctx context.Context) {
	s.mutate(ctx, func(st *State) { st.Clear() })
}

// TogglePresented flips the presentation flag. The flag is in-memory only;
// it is not part of the persisted snapshot.
func (s *Session) TogglePresented() {
	s.mu.Lock()
	s.state.TogglePresented()
	s.mu.Unlock()
}

func (s *Session) mutate(ctx context.Context, apply func(*State)) {
	s.mu.Lock()
	apply(&s.state)
	lines := append(types.CartLines(nil), s.state.Lines...)
	s.mu.Unlock()

	ctx = s.deps.Logger.WithCartSessionID(ctx, s.id)
	s.persistLocal(ctx, lines)

	s.syncs.Add(1)
	go func(parent context.Context, lines types.CartLines) {
		defer s.syncs.Done()
		syncCtx, cancel := context.WithTimeout(context.WithoutCancel(parent), s.deps.SyncTimeout)
		defer cancel()
		s.syncRemote(syncCtx, lines)
	}(ctx, lines)
}

func (s *Session) persistLocal(ctx context.Context, lines types.CartLines) {
	payload, err := json.Marshal(lines)
	if err != nil {
		s.deps.Logger.Error(ctx, "encoding cart snapshot", err)
		return
	}
	if err := s.deps.Store.Set(ctx, s.deps.Store.CartKey(s.id), payload, s.deps.TTL); err != nil {
		s.deps.Logger.Error(ctx, "writing cart snapshot", err)
	}
}

func (s *Session) syncRemote(ctx context.Context, lines types.CartLines) {
	userID, ok := s.deps.Identity.CurrentUserID(ctx)
	if !ok {
		return
	}
	ctx = s.deps.Logger.WithUserID(ctx, userID.String())
	if err := s.deps.Mirror.Upsert(ctx, userID, lines); err != nil {
		s.deps.Logger.Warn(ctx, "cart mirror sync failed, keeping local state")
	}
}

// SyncWithServer pushes the current snapshot to the user's mirror record.
// Skipped when nobody is signed in; failures are logged and swallowed.
func (s *Session) SyncWithServer(ctx context.Context) {
	s.mu.Lock()
	lines := append(types.CartLines(nil), s.state.Lines...)
	s.mu.Unlock()
	s.syncRemote(s.deps.Logger.WithCartSessionID(ctx, s.id), lines)
}

// LoadFromServer replaces the local cart with the user's mirror record and
// persists it locally. Skipped when nobody is signed in; failures are logged
// and swallowed, leaving the local state untouched.
func (s *Session) LoadFromServer(ctx context.Context) {
	userID, ok := s.deps.Identity.CurrentUserID(ctx)
	if !ok {
		return
	}
	ctx = s.deps.Logger.WithCartSessionID(ctx, s.id)
	ctx = s.deps.Logger.WithUserID(ctx, userID.String())

	lines, err := s.deps.Mirror.Fetch(ctx, userID)
	if err != nil {
		s.deps.Logger.Warn(ctx, "fetching cart mirror failed, keeping local state")
		return
	}

	s.mu.Lock()
	s.state.Lines = lines
	s.mu.Unlock()

	s.persistLocal(ctx, lines)
}

// Flush waits for in-flight mirror syncs, for graceful shutdown.
func (s *Session) Flush() {
	s.syncs.Wait()
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Snapshot returns a copy of the current lines.
func (s *Session) Snapshot() types.CartLines {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(types.CartLines(nil), s.state.Lines...)
}

// Presented reports the presentation flag.
func (s *Session) Presented() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Presented
}

// Subtotal returns the current subtotal.
func (s *Session) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Subtotal()
}

// ItemCount returns the total quantity in the cart.
func (s *Session) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ItemCount()
}

// Totals returns subtotal, shipping fee, tax and the pre-tax total in one
// locked read. Checkout adds the tax on top.
func (s *Session) Totals() (subtotal, shipping, tax, total decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Subtotal(), s.state.ShippingFee(), s.state.Tax(), s.state.Total()
}
