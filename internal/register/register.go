// Package register keeps one open register (cart, catalog and checkout) per
// logged in cashier session.
package register

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nikolayk812/pos-demo/internal/catalog"
	"github.com/nikolayk812/pos-demo/internal/checkout"
	"github.com/nikolayk812/pos-demo/internal/domain"
	"github.com/nikolayk812/pos-demo/internal/port"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/currency"
)

// Remote is the remote API as seen by one session.
type Remote interface {
	port.ProductSource
	port.SaleSubmitter
}

type RemoteFactory func(token string) Remote

type Register struct {
	Session domain.Session
	Cart    *domain.Cart

	mu       sync.Mutex
	catalog  *catalog.Catalog
	checkout *checkout.Service
}

// Catalog runs fn with exclusive access to the register's catalog.
func (r *Register) Catalog(fn func(c *catalog.Catalog)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn(r.catalog)
}

func (r *Register) Product(id domain.ProductID) (domain.Product, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.catalog.Product(id)
}

// Complete commits the cart and, on success, swaps in the refreshed stock.
func (r *Register) Complete(ctx context.Context) (checkout.Result, error) {
	result, err := r.checkout.Complete(ctx, r.Session, r.Cart)
	if err != nil {
		return checkout.Result{}, err
	}

	if result.Products != nil {
		r.mu.Lock()
		r.catalog.SetProducts(result.Products)
		r.mu.Unlock()
	}

	return result, nil
}

type Registry struct {
	mu        sync.Mutex
	registers map[string]*Register
	touched   map[string]time.Time
	now       func() time.Time

	remote          RemoteFactory
	journal         port.ReceiptRepository
	defaultCurrency currency.Unit
	logger          *zap.Logger
}

func NewRegistry(remote RemoteFactory, journal port.ReceiptRepository, defaultCurrency currency.Unit, logger *zap.Logger) *Registry {
	return &Registry{
		registers:       make(map[string]*Register),
		touched:         make(map[string]time.Time),
		now:             time.Now,
		remote:          remote,
		journal:         journal,
		defaultCurrency: defaultCurrency,
		logger:          logger,
	}
}

// Open returns the session's register, loading products and categories the
// first time. Nothing is kept when either load fails.
func (r *Registry) Open(ctx context.Context, sess domain.Session) (*Register, error) {
	r.mu.Lock()
	reg, ok := r.registers[sess.ID]
	if ok {
		r.touched[sess.ID] = r.now()
	}
	r.mu.Unlock()

	if ok {
		return reg, nil
	}

	remote := r.remote(sess.Token)

	var (
		products   []domain.Product
		categories []domain.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = remote.Products(gctx)
		if err != nil {
			return fmt.Errorf("remote.Products: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = remote.Categories(gctx)
		if err != nil {
			return fmt.Errorf("remote.Categories: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		r.logger.Error("failed to load products and categories",
			zap.String("session_id", sess.ID),
			zap.Error(err))
		return nil, err
	}

	c := catalog.New()
	c.SetProducts(products)
	c.SetCategories(categories)

	reg = &Register{
		Session:  sess,
		Cart:     domain.NewCart(),
		catalog:  c,
		checkout: checkout.NewService(remote, remote, r.journal, r.defaultCurrency, r.logger),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.touched[sess.ID] = r.now()

	if existing, ok := r.registers[sess.ID]; ok {
		return existing, nil
	}
	r.registers[sess.ID] = reg

	r.logger.Info("register opened",
		zap.String("session_id", sess.ID),
		zap.Int("products", len(products)),
		zap.Int("categories", len(categories)))

	return reg, nil
}

func (r *Registry) Get(sessionID string) (*Register, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, ok := r.registers[sessionID]
	return reg, ok
}

// Close discards the session's register together with its cart.
func (r *Registry) Close(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.registers, sessionID)
	delete(r.touched, sessionID)
}

// EvictIdle closes the registers not opened for longer than maxIdle, except
// those with a sale in flight. It returns how many were closed.
func (r *Registry) EvictIdle(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)

	var evicted int
	for id, reg := range r.registers {
		if r.touched[id].After(cutoff) || reg.Cart.Committing() {
			continue
		}

		delete(r.registers, id)
		delete(r.touched, id)
		evicted++
	}

	if evicted > 0 {
		r.logger.Info("idle registers closed",
			zap.Int("evicted", evicted),
			zap.Int("open", len(r.registers)))
	}

	return evicted
}

// RunEviction calls EvictIdle every interval until ctx is done.
func (r *Registry) RunEviction(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.EvictIdle(maxIdle)
		}
	}
}
