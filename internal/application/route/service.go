package route

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/crm"
	"github.com/loro/backend/internal/domain/identity"
	"github.com/loro/backend/internal/domain/organisation"
	"github.com/loro/backend/internal/domain/route"
	"github.com/loro/backend/internal/domain/shared"
	"github.com/loro/backend/internal/domain/shared/valueobject"
	"github.com/loro/backend/internal/domain/task"
	"github.com/loro/backend/internal/infrastructure/cache"
	"github.com/loro/backend/internal/infrastructure/logger"
	"github.com/loro/backend/internal/infrastructure/retry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBranchCacheTTL = time.Hour
	DefaultRouteCacheTTL  = time.Hour
	defaultConcurrency    = 8
	planLockStripes       = 64
)

// Recorder observes route planning
type Recorder interface {
	RoutePlanned(outcome string)
	ObserveRoutePlan(d time.Duration)
	RouteSwept(result string)
}

type nopRecorder struct{}

func (nopRecorder) RoutePlanned(string)            {}
func (nopRecorder) ObserveRoutePlan(time.Duration) {}
func (nopRecorder) RouteSwept(string)              {}

// Options tunes caching, retries and fan-out
type Options struct {
	BranchCacheTTL time.Duration
	RouteCacheTTL  time.Duration
	Retry          retry.Policy
	MaxConcurrency int
}

// DefaultOptions returns 1h caches, 3 attempts with 1s/2s delays and 8 parallel geocodes
func DefaultOptions() Options {
	return Options{
		BranchCacheTTL: DefaultBranchCacheTTL,
		RouteCacheTTL:  DefaultRouteCacheTTL,
		Retry:          retry.DefaultPolicy(),
		MaxConcurrency: defaultConcurrency,
	}
}

// Deps are the collaborators of TaskRouteService
type Deps struct {
	Tasks     task.TaskRepository
	Users     identity.UserRepository
	Branches  organisation.BranchRepository
	Clients   crm.ClientRepository
	Routes    route.RouteRepository
	Geocoder  route.Geocoder
	Optimizer route.Optimizer
	Cache     cache.Cache
	Tx        shared.TxManager
	Publisher shared.EventPublisher
	Recorder  Recorder
}

// TaskRouteService plans one route per assignee of a task: from the
// assignee's home branch through every client of the task, ordered by the
// external optimizer. Results are persisted and cached per task and day.
type TaskRouteService struct {
	deps   Deps
	opts   Options
	logger *zap.Logger
	now    func() time.Time

	// planLocks serialize planning per task; tasks share a stripe by ID
	planLocks [planLockStripes]sync.Mutex
}

// NewTaskRouteService creates a new TaskRouteService
func NewTaskRouteService(deps Deps, opts Options, log *zap.Logger) *TaskRouteService {
	def := DefaultOptions()
	if opts.BranchCacheTTL <= 0 {
		opts.BranchCacheTTL = def.BranchCacheTTL
	}
	if opts.RouteCacheTTL <= 0 {
		opts.RouteCacheTTL = def.RouteCacheTTL
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry.MaxAttempts = def.Retry.MaxAttempts
	}
	if opts.Retry.BaseDelay <= 0 {
		opts.Retry.BaseDelay = def.Retry.BaseDelay
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = def.MaxConcurrency
	}
	if deps.Recorder == nil {
		deps.Recorder = nopRecorder{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskRouteService{deps: deps, opts: opts, logger: log.Named("route_planner"), now: time.Now}
}

// BranchCacheKey is the cache key of a branch lookup
func BranchCacheKey(branchID uuid.UUID) string {
	return "route:branch:" + branchID.String()
}

// RouteCacheKey is the cache key of the routes of a task on a day
func RouteCacheKey(taskID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("route:task:%s:%s", taskID, date.Format(dateLayout))
}

type cachedBranch struct {
	TenantID uuid.UUID                `json:"tenant_id"`
	ID       uuid.UUID                `json:"id"`
	Address  string                   `json:"address"`
	Location *valueobject.Coordinates `json:"location,omitempty"`
}

type cachedRoutes struct {
	TenantID uuid.UUID       `json:"tenant_id"`
	Routes   []RouteResponse `json:"routes"`
}

// PlanRoutesForTask computes the routes of a task, replaces the stored ones
// and caches the result. An assignee whose route cannot be computed is
// skipped; the joined errors of all skipped assignees are returned next to
// the routes that were saved.
func (s *TaskRouteService) PlanRoutesForTask(ctx context.Context, tenantID, taskID uuid.UUID) ([]RouteResponse, error) {
	unlock := s.lockTask(taskID)
	defer unlock()

	t, err := s.deps.Tasks.FindByID(ctx, tenantID, taskID)
	if err != nil {
		return nil, err
	}
	return s.planAndCache(ctx, t)
}

// ReplanRoutesForTask recomputes the routes of a task and replaces the stored
// ones in a single transaction. If no route could be computed and at least one
// assignee failed, the stored routes are kept.
func (s *TaskRouteService) ReplanRoutesForTask(ctx context.Context, tenantID, taskID uuid.UUID) ([]RouteResponse, error) {
	unlock := s.lockTask(taskID)
	defer unlock()

	t, err := s.deps.Tasks.FindByID(ctx, tenantID, taskID)
	if err != nil {
		return nil, err
	}
	return s.replan(ctx, t)
}

// ReplanIfChanged replans only when the stored routes no longer match the
// task's assignees, clients or planned date. It reports whether it replanned.
func (s *TaskRouteService) ReplanIfChanged(ctx context.Context, tenantID, taskID uuid.UUID) (bool, error) {
	unlock := s.lockTask(taskID)
	defer unlock()

	t, err := s.deps.Tasks.FindByID(ctx, tenantID, taskID)
	if err != nil {
		return false, err
	}
	existing, err := s.deps.Routes.FindByTask(ctx, tenantID, taskID)
	if err != nil {
		return false, err
	}
	if routesMatchTask(existing, t) {
		return false, nil
	}
	_, err = s.replan(ctx, t)
	return true, err
}

// RemoveRoutesForTask deletes the stored routes of a task and drops their
// cached days. It returns the number of removed routes.
func (s *TaskRouteService) RemoveRoutesForTask(ctx context.Context, tenantID, taskID uuid.UUID) (int64, error) {
	unlock := s.lockTask(taskID)
	defer unlock()

	var (
		removed int64
		dates   = map[string]time.Time{}
	)
	err := s.deps.Tx.WithinTx(ctx, func(ctx context.Context) error {
		old, err := s.deps.Routes.FindByTask(ctx, tenantID, taskID)
		if err != nil {
			return err
		}
		for _, r := range old {
			dates[r.PlannedDate.Format(dateLayout)] = r.PlannedDate
		}
		removed, err = s.deps.Routes.DeleteByTask(ctx, tenantID, taskID)
		if err != nil {
			return fmt.Errorf("delete routes: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	for _, d := range dates {
		s.InvalidateRouteCache(ctx, taskID, d)
	}
	return removed, nil
}

// lockTask serializes planning of one task within the process. The unique
// (task, assignee, day) index covers concurrent planners in other processes.
func (s *TaskRouteService) lockTask(taskID uuid.UUID) func() {
	mu := &s.planLocks[int(taskID[len(taskID)-1])%planLockStripes]
	mu.Lock()
	return mu.Unlock
}

// planAndCache replans t and caches a non-empty result. Callers hold the task lock.
func (s *TaskRouteService) planAndCache(ctx context.Context, t *task.Task) ([]RouteResponse, error) {
	out, err := s.replan(ctx, t)
	if len(out) > 0 {
		s.storeRoutes(ctx, t.TenantID, t.ID, t.PlannedDate(), out)
	}
	return out, err
}

// replan replaces the stored routes of t in one transaction. Callers hold the task lock.
func (s *TaskRouteService) replan(ctx context.Context, t *task.Task) ([]RouteResponse, error) {
	routes, planErr := s.computeRoutes(ctx, t)
	if len(routes) == 0 && planErr != nil {
		logger.Enrich(ctx, s.logger).Warn("replan produced no routes, keeping stored routes",
			zap.String("task_id", t.ID.String()),
			zap.Error(planErr),
		)
		return []RouteResponse{}, planErr
	}

	staleDates := map[string]time.Time{}
	err := s.deps.Tx.WithinTx(ctx, func(ctx context.Context) error {
		old, err := s.deps.Routes.FindByTask(ctx, t.TenantID, t.ID)
		if err != nil {
			return err
		}
		for _, r := range old {
			staleDates[r.PlannedDate.Format(dateLayout)] = r.PlannedDate
		}
		if _, err := s.deps.Routes.DeleteByTask(ctx, t.TenantID, t.ID); err != nil {
			return fmt.Errorf("delete routes: %w", err)
		}
		if len(routes) == 0 {
			return nil
		}
		if err := s.deps.Routes.SaveAll(ctx, routes); err != nil {
			return fmt.Errorf("save routes: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !t.PlannedDate().IsZero() {
		staleDates[t.PlannedDate().Format(dateLayout)] = t.PlannedDate()
	}
	for _, d := range staleDates {
		s.InvalidateRouteCache(ctx, t.ID, d)
	}
	s.publish(ctx, routes)
	return ToRouteResponses(routes), planErr
}

// GetRoutesForTaskOnDate returns the routes of a task for a day, reading the
// cache first, then the repository, and computing them as a last resort when
// the day is the task's planned date.
func (s *TaskRouteService) GetRoutesForTaskOnDate(ctx context.Context, tenantID, taskID uuid.UUID, date time.Time) ([]RouteResponse, error) {
	day := shared.StartOfDay(date)
	if cached, ok := s.cachedRoutes(ctx, tenantID, taskID, day); ok {
		return cached, nil
	}
	if out, ok, err := s.storedRoutes(ctx, tenantID, taskID, day); err != nil || ok {
		return out, err
	}

	unlock := s.lockTask(taskID)
	defer unlock()

	// another caller may have planned while this one waited for the lock
	if out, ok, err := s.storedRoutes(ctx, tenantID, taskID, day); err != nil || ok {
		return out, err
	}
	t, err := s.deps.Tasks.FindByID(ctx, tenantID, taskID)
	if err != nil {
		return nil, err
	}
	if !t.IsRoutable() || !sameDay(t.PlannedDate(), day) {
		return []RouteResponse{}, nil
	}
	return s.planAndCache(ctx, t)
}

// storedRoutes reads the routes of a day from the repository and caches them when found
func (s *TaskRouteService) storedRoutes(ctx context.Context, tenantID, taskID uuid.UUID, day time.Time) ([]RouteResponse, bool, error) {
	stored, err := s.deps.Routes.FindByTaskAndDate(ctx, tenantID, taskID, day)
	if err != nil {
		return nil, false, err
	}
	if len(stored) == 0 {
		return nil, false, nil
	}
	out := ToRouteResponses(stored)
	s.storeRoutes(ctx, tenantID, taskID, day, out)
	return out, true, nil
}

// InvalidateRouteCache drops the cached routes of a task for a day
func (s *TaskRouteService) InvalidateRouteCache(ctx context.Context, taskID uuid.UUID, date time.Time) {
	if err := s.deps.Cache.Delete(ctx, RouteCacheKey(taskID, date)); err != nil {
		logger.Enrich(ctx, s.logger).Warn("failed to invalidate route cache",
			zap.String("task_id", taskID.String()),
			zap.Error(err),
		)
	}
}

// InvalidateBranch drops the cached lookup of a branch
func (s *TaskRouteService) InvalidateBranch(ctx context.Context, branchID uuid.UUID) {
	if err := s.deps.Cache.Delete(ctx, BranchCacheKey(branchID)); err != nil {
		logger.Enrich(ctx, s.logger).Warn("failed to invalidate branch cache",
			zap.String("branch_id", branchID.String()),
			zap.Error(err),
		)
	}
}

// SweepTasksDueToday makes sure every task due on now's date has cached
// routes. Failures are logged per task and never stop the sweep.
func (s *TaskRouteService) SweepTasksDueToday(ctx context.Context, now time.Time) (SweepResult, error) {
	var res SweepResult
	from := shared.StartOfDay(now)
	tasks, err := s.deps.Tasks.FindDueBetween(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		return res, fmt.Errorf("list tasks due today: %w", err)
	}
	log := logger.Enrich(ctx, s.logger)

	for _, t := range tasks {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		res.Tasks++
		if !t.IsRoutable() {
			res.Skipped++
			s.deps.Recorder.RouteSwept("skipped")
			continue
		}
		if _, ok := s.cachedRoutes(ctx, t.TenantID, t.ID, t.PlannedDate()); ok {
			res.CacheHits++
			s.deps.Recorder.RouteSwept("cache_hit")
			continue
		}

		unlock := s.lockTask(t.ID)
		routes, err := s.replan(ctx, t)
		unlock()
		if err != nil {
			log.Error("route sweep failed for task",
				zap.String("task_id", t.ID.String()),
				zap.String("tenant_id", t.TenantID.String()),
				zap.Error(err),
			)
		}
		if len(routes) == 0 {
			res.Failed++
			s.deps.Recorder.RouteSwept("failed")
			continue
		}
		s.storeRoutes(ctx, t.TenantID, t.ID, t.PlannedDate(), routes)
		res.Planned++
		s.deps.Recorder.RouteSwept("planned")
	}

	log.Info("route sweep finished",
		zap.Int("tasks", res.Tasks),
		zap.Int("cache_hits", res.CacheHits),
		zap.Int("planned", res.Planned),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}

// ListRoutes lists routes of a tenant
func (s *TaskRouteService) ListRoutes(ctx context.Context, tenantID uuid.UUID, req ListRoutesRequest) ([]RouteResponse, int64, error) {
	filter := route.Filter{
		AssigneeID: req.AssigneeID,
		BranchID:   req.BranchID,
		TaskID:     req.TaskID,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}
	if req.Date != "" {
		d, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_DATE", "date must be YYYY-MM-DD")
		}
		filter.Date = &d
	}
	routes, total, err := s.deps.Routes.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToRouteResponses(routes), total, nil
}

// GetRoute returns one route
func (s *TaskRouteService) GetRoute(ctx context.Context, tenantID, id uuid.UUID) (*RouteResponse, error) {
	r, err := s.deps.Routes.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToRouteResponse(r)
	return &resp, nil
}

// computeRoutes plans every assignee in turn. Nothing is persisted here.
func (s *TaskRouteService) computeRoutes(ctx context.Context, t *task.Task) ([]*route.Route, error) {
	if !t.IsRoutable() {
		return nil, nil
	}
	start := s.now()
	defer func() { s.deps.Recorder.ObserveRoutePlan(time.Since(start)) }()

	clients, err := s.loadClients(ctx, t)
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return nil, nil
	}

	log := logger.Enrich(ctx, s.logger).With(zap.String("task_id", t.ID.String()))
	var (
		routes []*route.Route
		errs   []error
	)
	for _, assignee := range t.Assignees {
		r, err := s.planForAssignee(ctx, t, assignee, clients)
		if err != nil {
			s.deps.Recorder.RoutePlanned("failure")
			log.Warn("route planning failed for assignee",
				zap.String("assignee_id", assignee.String()),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("assignee %s: %w", assignee, err))
			continue
		}
		s.deps.Recorder.RoutePlanned("success")
		routes = append(routes, r)
	}
	return routes, errors.Join(errs...)
}

func (s *TaskRouteService) planForAssignee(ctx context.Context, t *task.Task, assigneeID uuid.UUID, clients []*crm.Client) (*route.Route, error) {
	branch, err := s.resolveBranch(ctx, t, assigneeID)
	if err != nil {
		return nil, err
	}

	origin, err := s.branchOrigin(ctx, branch)
	if err != nil {
		return nil, err
	}
	destinations, err := s.geocodeClients(ctx, clients)
	if err != nil {
		return nil, err
	}

	opt, err := retry.DoValue(ctx, s.opts.Retry, func(ctx context.Context) (*route.Optimization, error) {
		return s.deps.Optimizer.Optimize(ctx, origin, destinations)
	})
	if err != nil {
		return nil, shared.WrapDomainError(shared.ErrExternalService.Code, "Route optimization failed", err)
	}

	waypoints := make([]route.Waypoint, len(clients))
	for i, c := range clients {
		waypoints[i] = route.Waypoint{
			TaskID:   t.ID,
			ClientID: c.ID,
			Address:  c.Address.FullAddress(),
			Location: destinations[i],
		}
	}
	return route.NewRoute(t.TenantID, t.ID, assigneeID, branch.ID, origin, waypoints, opt, *t.Deadline)
}

// resolveBranch finds the assignee's home branch, falling back to the task's
// branch for users without one. Branch lookups are cached.
func (s *TaskRouteService) resolveBranch(ctx context.Context, t *task.Task, assigneeID uuid.UUID) (*cachedBranch, error) {
	user, err := s.deps.Users.FindByID(ctx, t.TenantID, assigneeID)
	if err != nil {
		return nil, fmt.Errorf("load assignee: %w", err)
	}
	branchID := user.BranchID
	if branchID == nil {
		branchID = t.BranchID
	}
	if branchID == nil {
		return nil, shared.NewDomainError("NO_HOME_BRANCH", "Assignee has no home branch")
	}

	key := BranchCacheKey(*branchID)
	var cached cachedBranch
	if hit, err := s.deps.Cache.Get(ctx, key, &cached); err == nil && hit && cached.TenantID == t.TenantID {
		return &cached, nil
	}

	b, err := s.deps.Branches.FindByID(ctx, t.TenantID, *branchID)
	if err != nil {
		return nil, fmt.Errorf("load branch: %w", err)
	}
	cached = cachedBranch{
		TenantID: b.TenantID,
		ID:       b.ID,
		Address:  b.Address.FullAddress(),
		Location: b.Location,
	}
	if err := s.deps.Cache.Set(ctx, key, cached, s.opts.BranchCacheTTL); err != nil {
		logger.Enrich(ctx, s.logger).Warn("failed to cache branch", zap.Error(err))
	}
	return &cached, nil
}

func (s *TaskRouteService) branchOrigin(ctx context.Context, b *cachedBranch) (valueobject.Coordinates, error) {
	if b.Location != nil {
		return *b.Location, nil
	}
	loc, err := s.geocode(ctx, b.Address)
	if err != nil {
		return valueobject.Coordinates{}, shared.WrapDomainError(shared.ErrExternalService.Code, "Geocoding branch address failed", err)
	}
	return loc, nil
}

// geocodeClients resolves every client location in parallel. Clients that
// already carry coordinates are not geocoded; new coordinates are stored.
func (s *TaskRouteService) geocodeClients(ctx context.Context, clients []*crm.Client) ([]valueobject.Coordinates, error) {
	out := make([]valueobject.Coordinates, len(clients))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxConcurrency)

	for i, c := range clients {
		if c.Location != nil {
			out[i] = *c.Location
			continue
		}
		g.Go(func() error {
			loc, err := s.geocode(gctx, c.Address.FullAddress())
			if err != nil {
				return shared.WrapDomainError(shared.ErrExternalService.Code,
					fmt.Sprintf("Geocoding client %s failed", c.ID), err)
			}
			out[i] = loc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, c := range clients {
		if c.Location != nil {
			continue
		}
		c.SetLocation(out[i])
		if err := s.deps.Clients.UpdateLocation(ctx, c.TenantID, c.ID, out[i].Lat, out[i].Lng); err != nil {
			logger.Enrich(ctx, s.logger).Warn("failed to store client location",
				zap.String("client_id", c.ID.String()),
				zap.Error(err),
			)
		}
	}
	return out, nil
}

func (s *TaskRouteService) geocode(ctx context.Context, address string) (valueobject.Coordinates, error) {
	return retry.DoValue(ctx, s.opts.Retry, func(ctx context.Context) (valueobject.Coordinates, error) {
		return s.deps.Geocoder.Geocode(ctx, address)
	})
}

// loadClients returns the task's live clients in task order
func (s *TaskRouteService) loadClients(ctx context.Context, t *task.Task) ([]*crm.Client, error) {
	found, err := s.deps.Clients.FindByIDs(ctx, t.TenantID, t.Clients)
	if err != nil {
		return nil, fmt.Errorf("load clients: %w", err)
	}
	byID := make(map[uuid.UUID]*crm.Client, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	out := make([]*crm.Client, 0, len(t.Clients))
	for _, id := range t.Clients {
		if c, ok := byID[id]; ok && !c.Deleted() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *TaskRouteService) cachedRoutes(ctx context.Context, tenantID, taskID uuid.UUID, day time.Time) ([]RouteResponse, bool) {
	var entry cachedRoutes
	hit, err := s.deps.Cache.Get(ctx, RouteCacheKey(taskID, day), &entry)
	if err != nil {
		logger.Enrich(ctx, s.logger).Warn("route cache read failed", zap.Error(err))
		return nil, false
	}
	if !hit || entry.TenantID != tenantID {
		return nil, false
	}
	return entry.Routes, true
}

func (s *TaskRouteService) storeRoutes(ctx context.Context, tenantID, taskID uuid.UUID, day time.Time, routes []RouteResponse) {
	if day.IsZero() || len(routes) == 0 {
		return
	}
	entry := cachedRoutes{TenantID: tenantID, Routes: routes}
	if err := s.deps.Cache.Set(ctx, RouteCacheKey(taskID, day), entry, s.opts.RouteCacheTTL); err != nil {
		logger.Enrich(ctx, s.logger).Warn("route cache write failed", zap.Error(err))
	}
}

func (s *TaskRouteService) publish(ctx context.Context, routes []*route.Route) {
	aggs := make([]shared.AggregateRoot, len(routes))
	for i, r := range routes {
		aggs[i] = r
	}
	if err := shared.PublishPending(ctx, s.deps.Publisher, aggs...); err != nil {
		logger.Enrich(ctx, s.logger).Warn("failed to publish route events", zap.Error(err))
	}
}

// routesMatchTask reports whether stored routes cover exactly the task's
// assignees, each visiting the task's clients on its planned date.
func routesMatchTask(routes []*route.Route, t *task.Task) bool {
	if !t.IsRoutable() {
		return len(routes) == 0
	}
	if len(routes) != len(t.Assignees) {
		return false
	}
	planned := t.PlannedDate()
	for _, r := range routes {
		if !t.IsAssignedTo(r.AssigneeID) || !sameDay(r.PlannedDate, planned) {
			return false
		}
		if !slices.Equal(r.ClientIDs(), t.Clients) {
			return false
		}
	}
	return true
}

func sameDay(a, b time.Time) bool {
	return a.Format(dateLayout) == b.Format(dateLayout)
}
