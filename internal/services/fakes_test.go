package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"github.com/VedantNarayan/champaran-meat-house/internal/realtime"
	"github.com/VedantNarayan/champaran-meat-house/internal/repository"
)

type fakeOrderRepo struct {
	mu       sync.Mutex
	orders   map[string]*models.Order
	menu     map[uint]*models.MenuItem
	placeErr error
	updates  int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*models.Order{}, menu: map[uint]*models.MenuItem{}}
}

func (r *fakeOrderRepo) PlaceOrder(_ context.Context, order *models.Order, items []models.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.placeErr != nil {
		return r.placeErr
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	stored := *order
	stored.Items = append([]models.OrderItem(nil), items...)
	r.orders[order.ID] = &stored
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	cp.Items = make([]models.OrderItem, len(o.Items))
	for i, it := range o.Items {
		it.MenuItem = r.menu[it.MenuItemID]
		cp.Items[i] = it
	}
	return &cp, nil
}

func (r *fakeOrderRepo) FindByIDPrefix(_ context.Context, prefix string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, o := range r.orders {
		if strings.HasPrefix(id, prefix) {
			cp := *o
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeOrderRepo) list(keep func(*models.Order) bool) []models.Order {
	out := []models.Order{}
	for _, o := range r.orders {
		if keep(o) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeOrderRepo) GetByUserID(_ context.Context, userID string) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(o *models.Order) bool { return o.UserID != nil && *o.UserID == userID }), nil
}

func (r *fakeOrderRepo) GetDriverFeed(_ context.Context) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(o *models.Order) bool { return o.Status != models.OrderCancelled }), nil
}

func (r *fakeOrderRepo) GetAll(_ context.Context) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(*models.Order) bool { return true }), nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id string, status models.OrderStatus, driverID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.updates++
	o.Status = status
	if driverID != nil {
		d := *driverID
		o.DriverID = &d
	}
	return nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

type fakeAddressRepo struct {
	rows []models.UserAddress
}

func (r *fakeAddressRepo) Create(_ context.Context, a *models.UserAddress) error {
	a.ID = uint(len(r.rows) + 1)
	r.rows = append(r.rows, *a)
	return nil
}

func (r *fakeAddressRepo) GetByUserID(_ context.Context, userID string) ([]models.UserAddress, error) {
	var out []models.UserAddress
	for _, a := range r.rows {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAddressRepo) Exists(_ context.Context, userID, street, city string) (bool, error) {
	for _, a := range r.rows {
		if a.UserID == userID && a.Street == street && a.City == city {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAddressRepo) Delete(_ context.Context, userID string, id uint) error {
	for i, a := range r.rows {
		if a.ID == id && a.UserID == userID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*models.Profile{}}
}

func (r *fakeProfileRepo) Create(_ context.Context, p *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.profiles[p.ID] = &cp
	return nil
}

func (r *fakeProfileRepo) GetByID(_ context.Context, id string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if strings.EqualFold(p.Email, email) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProfileRepo) GetAll(_ context.Context) ([]models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Profile
	for _, p := range r.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProfileRepo) Update(_ context.Context, p *models.Profile) error {
	return r.Create(context.Background(), p)
}

func (r *fakeProfileRepo) UpdateRole(_ context.Context, id string, role models.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Role = role
	return nil
}

func (r *fakeProfileRepo) UpdatePasswordHash(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.PasswordHash = hash
	return nil
}

// fakeSortableRepo keeps rows in a map and swaps under a mutex with the same stale-key check
// the database transaction performs.
type fakeSortableRepo struct {
	mu      sync.Mutex
	rows    map[uint]*models.Category
	nextID  uint
	swapErr error
}

func newFakeSortableRepo(names ...string) *fakeSortableRepo {
	r := &fakeSortableRepo{rows: map[uint]*models.Category{}}
	for i, n := range names {
		r.nextID++
		r.rows[r.nextID] = &models.Category{ID: r.nextID, Name: n, SortOrder: i + 1}
	}
	return r
}

func (r *fakeSortableRepo) sorted() []models.Category {
	out := make([]models.Category, 0, len(r.rows))
	for _, c := range r.rows {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *fakeSortableRepo) List(_ context.Context) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(), nil
}

func (r *fakeSortableRepo) GetByID(_ context.Context, id uint) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeSortableRepo) Create(_ context.Context, c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}

func (r *fakeSortableRepo) Update(_ context.Context, c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}

func (r *fakeSortableRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeSortableRepo) SortEntries(_ context.Context) ([]models.SortEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.SortEntry
	for _, c := range r.sorted() {
		out = append(out, models.SortEntry{ID: c.ID, SortOrder: c.SortOrder})
	}
	return out, nil
}

func (r *fakeSortableRepo) NextSortOrder(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for _, c := range r.rows {
		if c.SortOrder > max {
			max = c.SortOrder
		}
	}
	return max + 1, nil
}

func (r *fakeSortableRepo) Swap(_ context.Context, a, b models.SortEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.swapErr != nil {
		return r.swapErr
	}
	ra, okA := r.rows[a.ID]
	rb, okB := r.rows[b.ID]
	if !okA || !okB {
		return repository.ErrNotFound
	}
	if ra.SortOrder != a.SortOrder || rb.SortOrder != b.SortOrder {
		return repository.ErrStaleSortOrder
	}
	ra.SortOrder, rb.SortOrder = b.SortOrder, a.SortOrder
	return nil
}

func (r *fakeSortableRepo) Renumber(_ context.Context, ids []uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, id := range ids {
		if c, ok := r.rows[id]; ok {
			c.SortOrder = i + 1
		}
	}
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (p *recordingPublisher) Publish(e realtime.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) all() []realtime.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]realtime.Event(nil), p.events...)
}
