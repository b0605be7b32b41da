package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dmonteiro/curio/core"
	"github.com/dmonteiro/curio/engine"
	"github.com/dmonteiro/curio/view"
)

// ControllerConfig wires a Controller's collaborators.
type ControllerConfig struct {
	Gateway   core.AuthGateway
	Tools     core.ToolStorage
	Presenter view.Presenter

	// DebounceDelay coalesces rapid search keystrokes. Zero disables
	// debouncing (every keystroke recomputes immediately).
	DebounceDelay time.Duration

	// Notify surfaces classified, user-facing failure messages (toasts).
	// Nil falls back to logging.
	Notify func(kind core.ErrorKind, message string)

	// OnEditRequested is invoked when the edit affordance on an owned
	// card is triggered, so the host can open its edit form.
	OnEditRequested func(toolID string)

	Logger *zap.Logger
}

// Controller is the single owner of "who is signed in" and "which tools
// exist". It is the only component that calls the auth gateway or the
// tool storage; the filter engine and view sync receive copies and derived
// state only.
type Controller struct {
	gateway  core.AuthGateway
	tools    core.ToolStorage
	filter   *engine.Filter
	viewSync *view.Sync
	search   *Debouncer
	notify   func(kind core.ErrorKind, message string)
	log      *zap.Logger

	mu            sync.Mutex
	currentUser   *core.User
	shared        []core.Tool // globally visible: seeded catalog + admin-flagged tools
	authoritative []core.Tool // shared + the current user's custom tools
	generation    uint64      // bumped on every auth state change
	inflight      map[string]bool

	baseCtx     context.Context
	unsubscribe func()
}

func NewController(cfg ControllerConfig) *Controller {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	c := &Controller{
		gateway:  cfg.Gateway,
		tools:    cfg.Tools,
		filter:   engine.New(),
		search:   NewDebouncer(cfg.DebounceDelay),
		log:      log,
		inflight: make(map[string]bool),
		baseCtx:  context.Background(),
	}

	c.notify = cfg.Notify
	if c.notify == nil {
		c.notify = func(kind core.ErrorKind, message string) {
			log.Warn("notification", zap.String("kind", kind.String()), zap.String("message", message))
		}
	}

	onEdit := cfg.OnEditRequested
	if onEdit == nil {
		onEdit = func(string) {}
	}
	c.viewSync = view.New(cfg.Presenter, view.ActionHandlers{
		Edit: onEdit,
		Delete: func(toolID string) {
			if err := c.DeleteTool(c.baseCtx, toolID); err != nil {
				c.log.Debug("delete from card affordance failed", zap.String("tool_id", toolID), zap.Error(err))
			}
		},
	})

	return c
}

// Start loads the globally visible catalog, subscribes to auth state
// changes (at most one active subscription per controller), restores any
// held session, and renders the initial directory.
func (c *Controller) Start(ctx context.Context) error {
	c.baseCtx = ctx

	shared, err := c.tools.ListPublicTools(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	c.mu.Lock()
	c.shared = make([]core.Tool, 0, len(shared))
	for _, t := range shared {
		c.shared = append(c.shared, *t)
	}
	c.authoritative = append([]core.Tool(nil), c.shared...)
	c.recomputeLocked()
	c.mu.Unlock()

	if c.unsubscribe == nil {
		c.unsubscribe = c.gateway.OnAuthStateChange(func(u *core.User) {
			c.applyAuthChange(c.baseCtx, u)
		})
	}

	// Restore a session held from a previous run, if any.
	user, err := c.gateway.CurrentUser(ctx)
	if err != nil {
		c.log.Warn("session restore check failed", zap.Error(err))
	} else if user != nil {
		c.applyAuthChange(ctx, user)
	}

	return nil
}

// Close unsubscribes and cancels any pending search.
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.search.Stop()
}

// ============================================
// Auth orchestration
// ============================================

func (c *Controller) SignUp(ctx context.Context, input core.SignUpInput) error {
	if err := core.ValidateEmail(input.Email); err != nil {
		return c.fail(err)
	}
	if err := core.ValidatePassword(input.Password); err != nil {
		return c.fail(err)
	}
	if !c.begin("auth") {
		return core.ErrOperationInFlight
	}
	defer c.end("auth")

	if _, err := c.gateway.SignUp(ctx, input); err != nil {
		return c.fail(err)
	}
	// The gateway's state-change notification drives the login path.
	return nil
}

func (c *Controller) SignIn(ctx context.Context, input core.SignInInput) error {
	if err := core.ValidateEmail(input.Email); err != nil {
		return c.fail(err)
	}
	if input.Password == "" {
		return c.fail(&core.FieldError{Field: "password", Err: core.ErrPasswordRequired})
	}
	if !c.begin("auth") {
		return core.ErrOperationInFlight
	}
	defer c.end("auth")

	if _, err := c.gateway.SignIn(ctx, input); err != nil {
		return c.fail(err)
	}
	return nil
}

func (c *Controller) SignOut(ctx context.Context) error {
	if !c.begin("auth") {
		return core.ErrOperationInFlight
	}
	defer c.end("auth")

	if err := c.gateway.SignOut(ctx); err != nil {
		// State is still dropped locally; never hold another session's
		// private data after a logout attempt.
		c.fail(err)
	}
	return nil
}

// VisibilityRegained re-checks the gateway's current user, e.g. after the
// page regains focus. If it differs from the in-memory user the change is
// treated as a login or logout. Best effort only.
func (c *Controller) VisibilityRegained(ctx context.Context) {
	user, err := c.gateway.CurrentUser(ctx)
	if err != nil {
		c.log.Warn("cross-tab consistency check failed", zap.Error(err))
		return
	}

	c.mu.Lock()
	same := sameUser(c.currentUser, user)
	c.mu.Unlock()

	if !same {
		c.applyAuthChange(ctx, user)
	}
}

// applyAuthChange is the single login/logout path. The generation counter
// orders overlapping changes: any tool fetch still in flight for an older
// state is abandoned when it returns.
func (c *Controller) applyAuthChange(ctx context.Context, user *core.User) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	if user == nil {
		c.applyLogout(gen)
		return
	}
	c.applyLogin(ctx, gen, user)
}

func (c *Controller) applyLogin(ctx context.Context, gen uint64, user *core.User) {
	// Fetch outside the lock; only the user's own tools are ever fetched.
	custom, err := c.tools.GetUserTools(ctx, user.ID)
	if err != nil {
		c.fail(err)
		custom = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		// A newer auth change happened while we fetched; this result is
		// stale and must not clobber it.
		c.log.Debug("abandoning stale tool fetch", zap.String("user_id", user.ID))
		return
	}

	c.currentUser = user
	c.authoritative = append([]core.Tool(nil), c.shared...)
	for _, t := range custom {
		if c.indexOfLocked(t.ID) >= 0 {
			// Admin-flagged tools the user owns are already in the
			// shared list.
			continue
		}
		c.authoritative = append(c.authoritative, *t)
	}
	c.log.Info("signed in",
		zap.String("user_id", user.ID),
		zap.Int("custom_tools", len(custom)))
	c.recomputeLocked()
}

func (c *Controller) applyLogout(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		return
	}

	c.currentUser = nil
	// Confidentiality: drop every custom tool; only the seeded catalog
	// and globally visible admin tools survive a logout.
	kept := c.authoritative[:0]
	for _, t := range c.authoritative {
		if t.OwnerUserID == "" || t.IsAdminTool {
			kept = append(kept, t)
		}
	}
	c.authoritative = kept
	c.log.Info("signed out, private state dropped")
	c.recomputeLocked()
}

// ============================================
// Tool mutations
// ============================================

// AddTool validates the submission locally, then persists it and updates
// exactly one record in the authoritative list. On failure the list is
// left untouched.
func (c *Controller) AddTool(ctx context.Context, input core.ToolInput) (*core.Tool, error) {
	c.mu.Lock()
	user := c.currentUser
	gen := c.generation
	c.mu.Unlock()

	if user == nil {
		return nil, c.fail(core.ErrNotSignedIn)
	}
	// Validation happens before any network call.
	if err := core.ValidateToolInput(input); err != nil {
		return nil, c.fail(err)
	}
	if !c.begin("add") {
		return nil, core.ErrOperationInFlight
	}
	defer c.end("add")

	tool := &core.Tool{
		Name:        input.Name,
		URL:         input.URL,
		Description: input.Description,
		Category:    input.Category,
		IsFree:      input.IsFree,
		IsChinese:   input.IsChinese,
		OwnerUserID: user.ID,
	}
	if err := c.tools.AddTool(ctx, tool); err != nil {
		return nil, c.fail(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		// The viewer changed while the call was outstanding; the new
		// state was rebuilt from storage and already includes this tool
		// if it should.
		return tool, nil
	}
	c.authoritative = append(c.authoritative, *tool)
	c.recomputeLocked()
	return tool, nil
}

// UpdateTool replaces one record in place, preserving its identity and
// creation time. Only the owner (or a role that manages all tools) may
// update.
func (c *Controller) UpdateTool(ctx context.Context, id string, input core.ToolInput) (*core.Tool, error) {
	c.mu.Lock()
	user := c.currentUser
	gen := c.generation
	idx := c.indexOfLocked(id)
	var existing core.Tool
	if idx >= 0 {
		existing = c.authoritative[idx]
	}
	c.mu.Unlock()

	if user == nil {
		return nil, c.fail(core.ErrNotSignedIn)
	}
	if idx < 0 {
		return nil, c.fail(core.ErrToolNotFound)
	}
	if !existing.EditableBy(user) {
		return nil, c.fail(core.ErrNotOwner)
	}
	if err := core.ValidateToolInput(input); err != nil {
		return nil, c.fail(err)
	}
	if !c.begin("update:" + id) {
		return nil, core.ErrOperationInFlight
	}
	defer c.end("update:" + id)

	updated := existing // ID, CreatedAt, OwnerUserID, IsAdminTool carry over
	updated.Name = input.Name
	updated.URL = input.URL
	updated.Description = input.Description
	updated.Category = input.Category
	updated.IsFree = input.IsFree
	updated.IsChinese = input.IsChinese

	if err := c.tools.UpdateTool(ctx, &updated); err != nil {
		c.refreshRecord(ctx, id)
		return nil, c.fail(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return &updated, nil
	}
	if idx = c.indexOfLocked(id); idx >= 0 {
		c.authoritative[idx] = updated
		c.recomputeLocked()
	}
	return &updated, nil
}

// DeleteTool removes one record. On failure the authoritative list is
// exactly as it was before the attempt; there is no optimistic removal.
func (c *Controller) DeleteTool(ctx context.Context, id string) error {
	c.mu.Lock()
	user := c.currentUser
	gen := c.generation
	idx := c.indexOfLocked(id)
	var existing core.Tool
	if idx >= 0 {
		existing = c.authoritative[idx]
	}
	c.mu.Unlock()

	if user == nil {
		return c.fail(core.ErrNotSignedIn)
	}
	if idx < 0 {
		return c.fail(core.ErrToolNotFound)
	}
	if !existing.EditableBy(user) {
		return c.fail(core.ErrNotOwner)
	}
	if !c.begin("delete:" + id) {
		return core.ErrOperationInFlight
	}
	defer c.end("delete:" + id)

	if err := c.tools.DeleteTool(ctx, id); err != nil {
		return c.fail(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return nil
	}
	if idx = c.indexOfLocked(id); idx >= 0 {
		c.authoritative = append(c.authoritative[:idx], c.authoritative[idx+1:]...)
		c.recomputeLocked()
	}
	return nil
}

// SetAdminFlag marks a tool globally visible. Privileged roles only.
func (c *Controller) SetAdminFlag(ctx context.Context, id string, admin bool) error {
	c.mu.Lock()
	user := c.currentUser
	c.mu.Unlock()

	if user == nil {
		return c.fail(core.ErrNotSignedIn)
	}
	if !user.Role.ManagesAllTools() {
		return c.fail(core.ErrAdminOnly)
	}

	if err := c.tools.SetAdminFlag(ctx, id, admin); err != nil {
		return c.fail(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := c.indexOfLocked(id); idx >= 0 {
		c.authoritative[idx].IsAdminTool = admin
		c.sharedFlagLocked(c.authoritative[idx], admin)
		c.recomputeLocked()
	}
	return nil
}

// sharedFlagLocked keeps the shared list consistent with an admin-flag
// change, so later auth-state rebuilds still carry it.
func (c *Controller) sharedFlagLocked(t core.Tool, admin bool) {
	for i := range c.shared {
		if c.shared[i].ID != t.ID {
			continue
		}
		if admin || t.OwnerUserID == "" {
			c.shared[i].IsAdminTool = admin
			return
		}
		// An un-flagged owned tool is no longer globally visible.
		c.shared = append(c.shared[:i], c.shared[i+1:]...)
		return
	}
	if admin {
		c.shared = append(c.shared, t)
	}
}

// ============================================
// Search
// ============================================

// Search coalesces rapid keystrokes; the final keystroke always wins.
func (c *Controller) Search(term string) {
	c.search.Trigger(func() {
		c.SearchNow(term)
	})
}

// SearchNow recomputes visibility for the given term immediately.
func (c *Controller) SearchNow(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.SetSearchTerm(term)
	c.recomputeLocked()
}

// ============================================
// Read-only views
// ============================================

// CurrentUser returns the signed-in user, or nil.
func (c *Controller) CurrentUser() *core.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentUser
}

// Tools returns a copy of the authoritative list.
func (c *Controller) Tools() []core.Tool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.Tool(nil), c.authoritative...)
}

// VisibleSet computes a fresh derived set for the current state.
func (c *Controller) VisibleSet() *engine.VisibleSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter.ComputeVisibility(c.viewerIDLocked())
}

// Surface returns the open-state machine for a modal or card overlay.
func (c *Controller) Surface(id string) *view.Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewSync.Surface(id)
}

// ============================================
// Internals
// ============================================

// recomputeLocked feeds the engine and reconciles the view. Both are pure
// and synchronous; no I/O happens past this point.
func (c *Controller) recomputeLocked() {
	viewerID := c.viewerIDLocked()
	c.filter.SetToolSet(c.authoritative)
	set := c.filter.ComputeVisibility(viewerID)
	c.viewSync.Reconcile(set, viewerID)
}

func (c *Controller) viewerIDLocked() string {
	if c.currentUser == nil {
		return ""
	}
	return c.currentUser.ID
}

func (c *Controller) indexOfLocked(id string) int {
	for i := range c.authoritative {
		if c.authoritative[i].ID == id {
			return i
		}
	}
	return -1
}

// refreshRecord re-reads one record after a rejected mutation, so stale
// UI state from another session converges.
func (c *Controller) refreshRecord(ctx context.Context, id string) {
	c.mu.Lock()
	user := c.currentUser
	c.mu.Unlock()
	if user == nil {
		return
	}

	fresh, err := c.tools.GetUserTools(ctx, user.ID)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range fresh {
		if t.ID != id {
			continue
		}
		if idx := c.indexOfLocked(id); idx >= 0 {
			c.authoritative[idx] = *t
			c.recomputeLocked()
		}
		return
	}
}

// begin marks an operation in flight. The false return is the programmatic
// equivalent of a disabled submit button: the caller must not proceed.
func (c *Controller) begin(op string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[op] {
		return false
	}
	c.inflight[op] = true
	return true
}

func (c *Controller) end(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, op)
}

// fail classifies, notifies, and passes the error through.
func (c *Controller) fail(err error) error {
	kind, message := core.Translate(err)
	c.notify(kind, message)
	return err
}

func sameUser(a, b *core.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}
