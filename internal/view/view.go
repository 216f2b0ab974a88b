package view

import (
	"context"
	"sync"

	"github.com/a-h/templ"
	"github.com/google/uuid"

	"github.com/felixbrock/catalogview/internal/components"
	"github.com/felixbrock/catalogview/internal/domain"
	"github.com/felixbrock/catalogview/internal/query"
)

type View interface {
	Id() string
	Render() templ.Component
	Close()
}

type ProductFetcher interface {
	List(ctx context.Context, page int) ([]domain.Product, error)
}

type UserFetcher interface {
	List(ctx context.Context) ([]domain.User, error)
}

// ProductList pages through the product endpoint. The page counter starts at
// 1 and has no upper bound.
type ProductList struct {
	id    string
	query *query.Query[domain.Product]

	mu   sync.Mutex
	page int
}

func NewProductList(repo ProductFetcher, opts ...query.Option) *ProductList {
	v := &ProductList{
		id:    uuid.NewString(),
		query: query.New[domain.Product]("products", repo.List, opts...),
		page:  1,
	}
	v.query.SetKey(v.page)
	return v
}

func (v *ProductList) Id() string {
	return v.id
}

func (v *ProductList) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// Next advances the page and rebinds the query to it.
func (v *ProductList) Next() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page++
	v.query.SetKey(v.page)
	return v.page
}

func (v *ProductList) State() query.State[domain.Product] {
	return v.query.State()
}

func (v *ProductList) OnChange(fn func()) {
	v.query.OnChange(fn)
}

func (v *ProductList) Render() templ.Component {
	state, page := v.snapshot()
	return components.ProductList(v.id, state, page)
}

// snapshot reads the page and the query state together. Next rebinds the
// query while holding mu, so the state's key always matches the page.
func (v *ProductList) snapshot() (query.State[domain.Product], int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query.State(), v.page
}

func (v *ProductList) Close() {
	v.query.Close()
}

type UserList struct {
	id    string
	query *query.Query[domain.User]
}

func NewUserList(repo UserFetcher, opts ...query.Option) *UserList {
	fetch := func(ctx context.Context, _ int) ([]domain.User, error) {
		return repo.List(ctx)
	}
	v := &UserList{
		id:    uuid.NewString(),
		query: query.New[domain.User]("users", fetch, opts...),
	}
	v.query.SetKey(0)
	return v
}

func (v *UserList) Id() string {
	return v.id
}

func (v *UserList) State() query.State[domain.User] {
	return v.query.State()
}

func (v *UserList) OnChange(fn func()) {
	v.query.OnChange(fn)
}

func (v *UserList) Refresh() bool {
	return v.query.Refetch()
}

func (v *UserList) Render() templ.Component {
	return components.UserList(v.id, v.query.State())
}

func (v *UserList) Close() {
	v.query.Close()
}
