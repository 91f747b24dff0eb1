package route

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"testing"
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
	"github.com/loro/backend/internal/infrastructure/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Save(ctx context.Context, t *task.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTaskRepository) SaveAll(ctx context.Context, ts []*task.Task) error {
	return m.Called(ctx, ts).Error(0)
}

func (m *MockTaskRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindAll(ctx context.Context, tenantID uuid.UUID, f task.Filter) ([]*task.Task, int64, error) {
	args := m.Called(ctx, tenantID, f)
	return args.Get(0).([]*task.Task), args.Get(1).(int64), args.Error(2)
}

func (m *MockTaskRepository) FindDueBetween(ctx context.Context, from, to time.Time) ([]*task.Task, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindOverdueCandidates(ctx context.Context, now time.Time) ([]*task.Task, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, f task.Filter) (map[task.Status]int64, error) {
	args := m.Called(ctx, tenantID, f)
	return args.Get(0).(map[task.Status]int64), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, u *identity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*identity.User, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, tenantID uuid.UUID, f identity.UserFilter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, tenantID, f)
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

type MockBranchRepository struct {
	mock.Mock
}

func (m *MockBranchRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*organisation.Branch, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organisation.Branch), args.Error(1)
}

func (m *MockBranchRepository) FindByReferenceCode(ctx context.Context, tenantID uuid.UUID, code string) (*organisation.Branch, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organisation.Branch), args.Error(1)
}

func (m *MockBranchRepository) FindAll(ctx context.Context, tenantID uuid.UUID, f shared.Filter) ([]*organisation.Branch, int64, error) {
	args := m.Called(ctx, tenantID, f)
	return args.Get(0).([]*organisation.Branch), args.Get(1).(int64), args.Error(2)
}

func (m *MockBranchRepository) ExistsByReferenceCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockBranchRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBranchRepository) Save(ctx context.Context, b *organisation.Branch) error {
	return m.Called(ctx, b).Error(0)
}

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Save(ctx context.Context, c *crm.Client) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockClientRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Client, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Client), args.Error(1)
}

func (m *MockClientRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*crm.Client, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]*crm.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, tenantID uuid.UUID, f crm.ClientFilter) ([]*crm.Client, int64, error) {
	args := m.Called(ctx, tenantID, f)
	return args.Get(0).([]*crm.Client), args.Get(1).(int64), args.Error(2)
}

func (m *MockClientRepository) UpdateLocation(ctx context.Context, tenantID, id uuid.UUID, lat, lng float64) error {
	return m.Called(ctx, tenantID, id, lat, lng).Error(0)
}

// =============================================================================
// Fakes
// =============================================================================

// fakeRouteRepo keeps routes in memory; fakeTx snapshots it so a failed
// transaction leaves it untouched.
type fakeRouteRepo struct {
	mu        sync.Mutex
	routes    map[uuid.UUID]*route.Route
	deletes   int
	dateReads int
	saveErr   error
}

func newFakeRouteRepo() *fakeRouteRepo {
	return &fakeRouteRepo{routes: map[uuid.UUID]*route.Route{}}
}

func (f *fakeRouteRepo) SaveAll(_ context.Context, rs []*route.Route) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	for _, r := range rs {
		f.routes[r.ID] = r
	}
	return nil
}

func (f *fakeRouteRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*route.Route, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.routes[id]
	if !ok || r.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return r, nil
}

func (f *fakeRouteRepo) FindByTask(_ context.Context, tenantID, taskID uuid.UUID) ([]*route.Route, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*route.Route
	for _, r := range f.routes {
		if r.TenantID == tenantID && r.TaskID == taskID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRouteRepo) FindByTaskAndDate(ctx context.Context, tenantID, taskID uuid.UUID, date time.Time) ([]*route.Route, error) {
	all, _ := f.FindByTask(ctx, tenantID, taskID)
	f.mu.Lock()
	f.dateReads++
	f.mu.Unlock()
	var out []*route.Route
	for _, r := range all {
		if sameDay(r.PlannedDate, date) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRouteRepo) FindAll(_ context.Context, tenantID uuid.UUID, _ route.Filter) ([]*route.Route, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*route.Route
	for _, r := range f.routes {
		if r.TenantID == tenantID {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRouteRepo) DeleteByTask(_ context.Context, tenantID, taskID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	var n int64
	for id, r := range f.routes {
		if r.TenantID == tenantID && r.TaskID == taskID {
			delete(f.routes, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeRouteRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.routes)
}

type fakeTx struct {
	repo *fakeRouteRepo
}

func (t fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.repo.mu.Lock()
	snapshot := maps.Clone(t.repo.routes)
	t.repo.mu.Unlock()
	if err := fn(ctx); err != nil {
		t.repo.mu.Lock()
		t.repo.routes = snapshot
		t.repo.mu.Unlock()
		return err
	}
	return nil
}

// fakeMaps geocodes from a table and returns the identity visiting order
type fakeMaps struct {
	mu            sync.Mutex
	locations     map[string]valueobject.Coordinates
	geocodeCalls  map[string]int
	optimizeCalls int
	failGeocode   map[string]int // address -> remaining failures, -1 for always
	failOptimize  int
	gate          chan struct{} // when set, Optimize waits until it is closed
}

func newFakeMaps() *fakeMaps {
	return &fakeMaps{
		locations:    map[string]valueobject.Coordinates{},
		geocodeCalls: map[string]int{},
		failGeocode:  map[string]int{},
	}
}

func (f *fakeMaps) Geocode(_ context.Context, address string) (valueobject.Coordinates, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.geocodeCalls[address]++
	if n := f.failGeocode[address]; n != 0 {
		if n > 0 {
			f.failGeocode[address] = n - 1
		}
		return valueobject.Coordinates{}, errors.New("provider unavailable")
	}
	loc, ok := f.locations[address]
	if !ok {
		return valueobject.Coordinates{}, route.ErrAddressNotFound
	}
	return loc, nil
}

func (f *fakeMaps) Optimize(_ context.Context, origin valueobject.Coordinates, dests []valueobject.Coordinates) (*route.Optimization, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.optimizeCalls++
	if f.failOptimize != 0 {
		if f.failOptimize > 0 {
			f.failOptimize--
		}
		return nil, errors.New("optimizer unavailable")
	}
	opt := &route.Optimization{}
	prev := origin
	for i := len(dests) - 1; i >= 0; i-- {
		opt.VisitingOrder = append(opt.VisitingOrder, i)
		opt.Legs = append(opt.Legs, route.Leg{DistanceMeters: 1000, DurationSeconds: 60, Start: prev, End: dests[i]})
		prev = dests[i]
	}
	opt.TotalDistanceMeters = 1000 * len(dests)
	opt.TotalDurationSeconds = 60 * len(dests)
	return opt, nil
}

func (f *fakeMaps) totalGeocodes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.geocodeCalls {
		n += c
	}
	return n
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) ofType(t string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.EventType() == t {
			n++
		}
	}
	return n
}

// =============================================================================
// Fixture
// =============================================================================

type fixture struct {
	tenantID  uuid.UUID
	branch    *organisation.Branch
	users     map[uuid.UUID]*identity.User
	clients   []*crm.Client
	task      *task.Task
	tasks     *MockTaskRepository
	userRepo  *MockUserRepository
	branches  *MockBranchRepository
	clientRep *MockClientRepository
	routes    *fakeRouteRepo
	maps      *fakeMaps
	cache     *cache.MemoryCache
	publisher *recordingPublisher
	svc       *TaskRouteService
}

var deadline = time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)

func mustAddress(t *testing.T, street, city string) valueobject.Address {
	t.Helper()
	a, err := valueobject.NewAddress(street, city)
	require.NoError(t, err)
	return a
}

// newFixture builds a task with the given number of assignees and clients,
// all assignees homed at one branch, every address geocodable.
func newFixture(t *testing.T, assignees, clients int) *fixture {
	t.Helper()
	f := &fixture{
		tenantID:  uuid.New(),
		users:     map[uuid.UUID]*identity.User{},
		tasks:     new(MockTaskRepository),
		userRepo:  new(MockUserRepository),
		branches:  new(MockBranchRepository),
		clientRep: new(MockClientRepository),
		routes:    newFakeRouteRepo(),
		maps:      newFakeMaps(),
		cache:     cache.NewMemoryCache(time.Hour, 100),
		publisher: &recordingPublisher{},
	}
	t.Cleanup(func() { _ = f.cache.Close() })

	branch, err := organisation.NewBranch(f.tenantID, "Head Office", "HQ", mustAddress(t, "1 Main Rd", "Cape Town"))
	require.NoError(t, err)
	f.branch = branch
	f.maps.locations[branch.Address.FullAddress()] = valueobject.Coordinates{Lat: -33.92, Lng: 18.42}

	var assigneeIDs, clientIDs []uuid.UUID
	for i := 0; i < assignees; i++ {
		branchID := branch.ID
		u := &identity.User{TenantAggregateRoot: shared.NewTenantAggregateRoot(f.tenantID), BranchID: &branchID, Role: identity.RoleUser}
		f.users[u.ID] = u
		assigneeIDs = append(assigneeIDs, u.ID)
	}
	streets := []string{"10 Long St", "20 Bree St", "30 Loop St", "40 Kloof St"}
	for i := 0; i < clients; i++ {
		c, err := crm.NewClient(f.tenantID, "Client "+streets[i], "", mustAddress(t, streets[i], "Cape Town"))
		require.NoError(t, err)
		f.clients = append(f.clients, c)
		clientIDs = append(clientIDs, c.ID)
		f.maps.locations[c.Address.FullAddress()] = valueobject.Coordinates{Lat: -33.9 + float64(i)/100, Lng: 18.4}
	}

	d := deadline
	tk, err := task.NewTask(f.tenantID, uuid.New(), task.NewTaskInput{
		Title:     "Quarterly visits",
		Deadline:  &d,
		Assignees: assigneeIDs,
		Clients:   clientIDs,
	})
	require.NoError(t, err)
	tk.ClearDomainEvents()
	f.task = tk

	f.tasks.On("FindByID", mock.Anything, f.tenantID, tk.ID).Return(tk, nil).Maybe()
	for id, u := range f.users {
		f.userRepo.On("FindByID", mock.Anything, f.tenantID, id).Return(u, nil).Maybe()
	}
	f.branches.On("FindByID", mock.Anything, f.tenantID, branch.ID).Return(branch, nil).Maybe()
	f.clientRep.On("FindByIDs", mock.Anything, f.tenantID, mock.Anything).Return(f.clients, nil).Maybe()
	f.clientRep.On("UpdateLocation", mock.Anything, f.tenantID, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	f.svc = f.newService()
	return f
}

func (f *fixture) newService() *TaskRouteService {
	return NewTaskRouteService(Deps{
		Tasks:     f.tasks,
		Users:     f.userRepo,
		Branches:  f.branches,
		Clients:   f.clientRep,
		Routes:    f.routes,
		Geocoder:  f.maps,
		Optimizer: f.maps,
		Cache:     f.cache,
		Tx:        fakeTx{repo: f.routes},
		Publisher: f.publisher,
	}, Options{Retry: retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}}, nil)
}

// resetClientLocations forgets geocoded coordinates so the next plan geocodes again
func (f *fixture) resetClientLocations() {
	for _, c := range f.clients {
		c.Location = nil
	}
}

// =============================================================================
// Tests
// =============================================================================

func TestPlanRoutesForTask_OneRoutePerAssignee(t *testing.T) {
	f := newFixture(t, 2, 3)
	ctx := context.Background()

	routes, err := f.svc.PlanRoutesForTask(ctx, f.tenantID, f.task.ID)
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, 2, f.routes.count())

	var assignees []uuid.UUID
	for _, r := range routes {
		assignees = append(assignees, r.AssigneeID)
		assert.Equal(t, f.task.ID, r.TaskID)
		assert.Equal(t, f.branch.ID, r.BranchID)
		assert.Equal(t, "2024-03-04", r.PlannedDate)
		assert.True(t, r.Optimized)
		assert.Equal(t, []int{2, 1, 0}, r.VisitingOrder)
		assert.Equal(t, 3000, r.TotalDistanceMeters)

		require.Len(t, r.Waypoints, 3)
		for i, w := range r.Waypoints {
			assert.Equal(t, f.task.Clients[i], w.ClientID)
		}
		assert.Equal(t, f.task.Clients[2], r.Stops[0].ClientID)
	}
	assert.ElementsMatch(t, f.task.Assignees, assignees)
	assert.Equal(t, 2, f.publisher.ofType(route.EventTypeRoutePlanned))

	// Clients are geocoded once and their coordinates kept
	for _, c := range f.clients {
		assert.Equal(t, 1, f.maps.geocodeCalls[c.Address.FullAddress()])
	}
	f.clientRep.AssertNumberOfCalls(t, "UpdateLocation", 3)
}

func TestPlanRoutesForTask_CachesResultAndBranch(t *testing.T) {
	f := newFixture(t, 2, 1)
	ctx := context.Background()

	_, err := f.svc.PlanRoutesForTask(ctx, f.tenantID, f.task.ID)
	require.NoError(t, err)

	var entry cachedRoutes
	hit, err := f.cache.Get(ctx, RouteCacheKey(f.task.ID, deadline), &entry)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Len(t, entry.Routes, 2)

	hit, err = f.cache.Get(ctx, BranchCacheKey(f.branch.ID), &cachedBranch{})
	require.NoError(t, err)
	assert.True(t, hit)
	f.branches.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestPlanRoutesForTask_NotRoutable(t *testing.T) {
	f := newFixture(t, 1, 0)

	routes, err := f.svc.PlanRoutesForTask(context.Background(), f.tenantID, f.task.ID)
	require.NoError(t, err)
	assert.Empty(t, routes)
	assert.Zero(t, f.maps.totalGeocodes())
	assert.Zero(t, f.routes.count())
}

func TestPlanRoutesForTask_OneAssigneeFailureDoesNotBlockOthers(t *testing.T) {
	f := newFixture(t, 2, 2)
	homeless := f.users[f.task.Assignees[1]]
	homeless.BranchID = nil

	routes, err := f.svc.PlanRoutesForTask(context.Background(), f.tenantID, f.task.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Assignee has no home branch")
	require.Len(t, routes, 1)
	assert.Equal(t, f.task.Assignees[0], routes[0].AssigneeID)
	assert.Equal(t, 1, f.routes.count())
}

func TestPlanRoutesForTask_TransientFailureRetried(t *testing.T) {
	f := newFixture(t, 1, 2)
	addr := f.clients[0].Address.FullAddress()
	f.maps.failGeocode[addr] = 2
	f.maps.failOptimize = 2

	routes, err := f.svc.PlanRoutesForTask(context.Background(), f.tenantID, f.task.ID)
	require.NoError(t, err)
	assert.Len(t, routes, 1)
	assert.Equal(t, 3, f.maps.geocodeCalls[addr])
	assert.Equal(t, 3, f.maps.optimizeCalls)
}

func TestPlanRoutesForTask_PersistentFailurePersistsNothing(t *testing.T) {
	f := newFixture(t, 1, 2)
	addr := f.clients[1].Address.FullAddress()
	f.maps.failGeocode[addr] = -1

	routes, err := f.svc.PlanRoutesForTask(context.Background(), f.tenantID, f.task.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrExternalService)
	assert.Empty(t, routes)
	assert.Equal(t, 3, f.maps.geocodeCalls[addr])
	assert.Zero(t, f.maps.optimizeCalls)
	assert.Zero(t, f.routes.count())
	assert.Zero(t, f.publisher.ofType(route.EventTypeRoutePlanned))
}

func TestPlanRoutesForTask_UnknownAddressIsRetriedThenFails(t *testing.T) {
	f := newFixture(t, 1, 1)
	delete(f.maps.locations, f.clients[0].Address.FullAddress())

	_, err := f.svc.PlanRoutesForTask(context.Background(), f.tenantID, f.task.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, route.ErrAddressNotFound)
	assert.Equal(t, 3, f.maps.geocodeCalls[f.clients[0].Address.FullAddress()])
}

func TestReplanRoutesForTask_ReplacesPriorRoutes(t *testing.T) {
	f := newFixture(t, 2, 2)
	ctx := context.Background()

	first, err := f.svc.PlanRoutesForTask(ctx, f.tenantID, f.task.ID)
	require.NoError(t, err)
	require.Len(t, first, 2)
	deletes := f.routes.deletes

	for range 3 {
		_, err := f.svc.ReplanRoutesForTask(ctx, f.tenantID, f.task.ID)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, f.routes.count(), "no duplicates accumulate")
	assert.Equal(t, deletes+3, f.routes.deletes)
	for _, r := range first {
		_, err := f.routes.FindByID(ctx, f.tenantID, r.ID)
		assert.True(t, shared.IsNotFound(err), "old route must be gone")
	}

	hit, _ := f.cache.Get(ctx, RouteCacheKey(f.task.ID, deadline), &cachedRoutes{})
	assert.False(t, hit, "replan invalidates the cached day")
}

func TestReplanRoutesForTask_AllFailKeepsStoredRoutes(t *testing.T) {
	f := newFixture(t, 1, 1)
	ctx := context.Background()

	_, err := f.svc.PlanRoutesForTask(ctx, f.tenantID, f.task.ID)
	require.NoError(t, err)
	deletes := f.routes.deletes

	f.maps.failOptimize = -1
	_, err = f.svc.ReplanRoutesForTask(ctx, f.tenantID, f.task.ID)
	require.Error(t, err)
	assert.Equal(t, 1, f.routes.count())
	assert.Equal(t, deletes, f.routes.deletes)
}

func TestReplanRoutesForTask_SaveFailureRollsBack(t *testing.T) {
	f := newFixture(t, 1, 1)
	ctx := context.Background()

	_, err := f.svc.PlanRoutesForTask(ctx, f.tenantID, f.task.ID)
	require.NoError(t, err)

	f.routes.saveErr = errors.New("disk full")
	_, err = f.svc.ReplanRoutesForTask(ctx, f.tenantID, f.task.ID)
	require.Error(t, err)
	assert.Equal(t, 1, f.routes.count(), "delete is rolled back with the failed insert")
}

func TestReplanIfChanged(t *testing.T) {
	f := newFixture(t, 1, 2)
	ctx := context.Background()

	_, err := f.svc.PlanRoutesForTask(ctx, f.tenantID, f.task.ID)
	require.NoError(t, err)

	replanned, err := f.svc.ReplanIfChanged(ctx, f.tenantID, f.task.ID)
	require.NoError(t, err)
	assert.False(t, replanned, "unchanged task keeps its routes")

	clients := f.task.Clients[:1]
	require.NoError(t, f.task.ApplyChanges(task.Changes{Clients: &clients}))
	replanned, err = f.svc.ReplanIfChanged(ctx, f.tenantID, f.task.ID)
	require.NoError(t, err)
	assert.True(t, replanned)

	stored, _ := f.routes.FindByTask(ctx, f.tenantID, f.task.ID)
	require.Len(t, stored, 1)
	assert.Equal(t, clients, stored[0].ClientIDs())
}

func TestGetRoutesForTaskOnDate_SecondCallHitsCache(t *testing.T) {
	f := newFixture(t, 1, 2)
	ctx := context.Background()

	first, err := f.svc.GetRoutesForTaskOnDate(ctx, f.tenantID, f.task.ID, deadline)
	require.NoError(t, err)
	require.Len(t, first, 1)
	geocodes, optimizes := f.maps.totalGeocodes(), f.maps.optimizeCalls
	reads := f.routes.dateReads

	f.resetClientLocations()
	second, err := f.svc.GetRoutesForTaskOnDate(ctx, f.tenantID, f.task.ID, deadline.Add(3*time.Hour))
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[0].VisitingOrder, second[0].VisitingOrder)
	assert.Equal(t, geocodes, f.maps.totalGeocodes(), "no external call within the TTL")
	assert.Equal(t, optimizes, f.maps.optimizeCalls)
	assert.Equal(t, reads, f.routes.dateReads, "cache answers before the repository")
}

func TestGetRoutesForTaskOnDate_ReadsRepositoryBeforeComputing(t *testing.T) {
	f := newFixture(t, 1, 1)
	ctx := context.Background()

	_, err := f.svc.PlanRoutesForTask(ctx, f.tenantID, f.task.ID)
	require.NoError(t, err)
	f.svc.InvalidateRouteCache(ctx, f.task.ID, deadline)
	optimizes := f.maps.optimizeCalls

	routes, err := f.svc.GetRoutesForTaskOnDate(ctx, f.tenantID, f.task.ID, deadline)
	require.NoError(t, err)
	assert.Len(t, routes, 1)
	assert.Equal(t, optimizes, f.maps.optimizeCalls)

	hit, _ := f.cache.Get(ctx, RouteCacheKey(f.task.ID, deadline), &cachedRoutes{})
	assert.True(t, hit)
}

func TestGetRoutesForTaskOnDate_OtherDayIsEmpty(t *testing.T) {
	f := newFixture(t, 1, 1)

	routes, err := f.svc.GetRoutesForTaskOnDate(context.Background(), f.tenantID, f.task.ID, deadline.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, routes)
	assert.Zero(t, f.maps.optimizeCalls)
}

func TestGetRoutesForTaskOnDate_CacheIsTenantScoped(t *testing.T) {
	f := newFixture(t, 1, 1)
	ctx := context.Background()
	_, err := f.svc.PlanRoutesForTask(ctx, f.tenantID, f.task.ID)
	require.NoError(t, err)

	other := uuid.New()
	f.tasks.On("FindByID", mock.Anything, other, f.task.ID).Return(nil, shared.ErrNotFound)

	_, err = f.svc.GetRoutesForTaskOnDate(ctx, other, f.task.ID, deadline)
	assert.True(t, shared.IsNotFound(err))
}

func TestSweepTasksDueToday(t *testing.T) {
	f := newFixture(t, 1, 1)
	ctx := context.Background()

	cached := newFixture(t, 1, 1)
	_, err := cached.svc.PlanRoutesForTask(ctx, cached.tenantID, cached.task.ID)
	require.NoError(t, err)

	idle, err := task.NewTask(f.tenantID, uuid.New(), task.NewTaskInput{Title: "No clients", Deadline: &deadline})
	require.NoError(t, err)

	// Share one cache and one set of repositories between both fixtures
	f.svc.deps.Cache = cached.cache
	day := func(d int) any {
		want := time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
		return mock.MatchedBy(func(got time.Time) bool { return got.Equal(want) })
	}
	f.tasks.On("FindDueBetween", mock.Anything, day(4), day(5)).
		Return([]*task.Task{f.task, cached.task, idle}, nil)

	res, err := f.svc.SweepTasksDueToday(ctx, time.Date(2024, 3, 4, 0, 0, 5, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Tasks: 3, CacheHits: 1, Planned: 1, Skipped: 1}, res)
	assert.Equal(t, 1, f.routes.count())

	hit, _ := cached.cache.Get(ctx, RouteCacheKey(f.task.ID, deadline), &cachedRoutes{})
	assert.True(t, hit, "sweep caches what it plans")
}

func TestSweepTasksDueToday_FailureDoesNotAbort(t *testing.T) {
	f := newFixture(t, 1, 1)
	second := newFixture(t, 1, 1)
	f.maps.failOptimize = -1

	// second's task is planned through f's service, so wire its lookups into f's mocks
	for id, u := range second.users {
		f.userRepo.On("FindByID", mock.Anything, second.tenantID, id).Return(u, nil)
	}
	f.branches.On("FindByID", mock.Anything, second.tenantID, second.branch.ID).Return(second.branch, nil)
	f.clientRep.On("FindByIDs", mock.Anything, second.tenantID, mock.Anything).Return(second.clients, nil)
	f.clientRep.On("UpdateLocation", mock.Anything, second.tenantID, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.maps.locations[second.branch.Address.FullAddress()] = valueobject.Coordinates{Lat: 1, Lng: 1}
	for _, c := range second.clients {
		f.maps.locations[c.Address.FullAddress()] = valueobject.Coordinates{Lat: 2, Lng: 2}
	}
	f.tasks.On("FindDueBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]*task.Task{f.task, second.task}, nil)

	res, err := f.svc.SweepTasksDueToday(context.Background(), deadline)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Tasks)
	assert.Equal(t, 2, res.Failed, "both fail because the optimizer is down")
	assert.Equal(t, 3*2, f.maps.optimizeCalls)
}

func TestListAndGetRoute(t *testing.T) {
	f := newFixture(t, 2, 1)
	ctx := context.Background()
	planned, err := f.svc.PlanRoutesForTask(ctx, f.tenantID, f.task.ID)
	require.NoError(t, err)

	list, total, err := f.svc.ListRoutes(ctx, f.tenantID, ListRoutesRequest{Date: "2024-03-04"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	got, err := f.svc.GetRoute(ctx, f.tenantID, planned[0].ID)
	require.NoError(t, err)
	assert.Equal(t, planned[0].ID, got.ID)

	_, _, err = f.svc.ListRoutes(ctx, f.tenantID, ListRoutesRequest{Date: "04/03/2024"})
	assert.Error(t, err)
}

func TestRoutesMatchTask(t *testing.T) {
	f := newFixture(t, 1, 2)
	_, err := f.svc.PlanRoutesForTask(context.Background(), f.tenantID, f.task.ID)
	require.NoError(t, err)
	stored, _ := f.routes.FindByTask(context.Background(), f.tenantID, f.task.ID)

	assert.True(t, routesMatchTask(stored, f.task))

	original := f.task.Clients
	reversed := slices.Clone(original)
	slices.Reverse(reversed)
	f.task.Clients = reversed
	assert.False(t, routesMatchTask(stored, f.task), "visiting a different client order")
	f.task.Clients = original

	assert.False(t, routesMatchTask(stored[:0], f.task))

	later := deadline.AddDate(0, 0, 1)
	require.NoError(t, f.task.ApplyChanges(task.Changes{Deadline: &later}))
	assert.False(t, routesMatchTask(stored, f.task))
}
