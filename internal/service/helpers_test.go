package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/pkg/logger"
	"ai-imagegen-be/internal/pkg/metrics"
	"ai-imagegen-be/internal/repository/memory"
	"ai-imagegen-be/internal/repository/unitofwork"
	"ai-imagegen-be/pkg/imagegen"
	"ai-imagegen-be/pkg/payment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store   *memory.Store
	factory unitofwork.RepositoryFactory
	logger  logger.ILogger
	metrics *metrics.Metrics
	ledger  ICreditLedger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	factory := memory.NewRepositoryFactory(store)
	log := logger.NewNopLogger()
	m := metrics.NewNop()
	return &fixture{
		store:   store,
		factory: factory,
		logger:  log,
		metrics: m,
		ledger:  NewCreditLedger(factory, log, m),
	}
}

// seedUser creates an account and grants it balance credits.
func (f *fixture) seedUser(t *testing.T, email string, balance int) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	user := &entity.User{Email: email, FullName: "Test " + email}
	require.NoError(t, f.factory.NewUnitOfWork(ctx).UserRepository().Create(ctx, user))
	if balance > 0 {
		_, err := f.ledger.Credit(ctx, user.Id, balance, LedgerMemo{Kind: entity.CreditEntryGrant})
		require.NoError(t, err)
	}
	return user.Id
}

func (f *fixture) balance(t *testing.T, userId uuid.UUID) int {
	t.Helper()
	b, err := f.ledger.GetBalance(context.Background(), userId)
	require.NoError(t, err)
	return b
}

// fakeProvider returns a canned image or error and records prompts.
type fakeProvider struct {
	mu      sync.Mutex
	prompts []string
	err     error
	block   bool
	panics  bool
}

func (p *fakeProvider) Generate(ctx context.Context, req imagegen.Request) (*imagegen.Image, error) {
	p.mu.Lock()
	p.prompts = append(p.prompts, req.Prompt)
	p.mu.Unlock()

	if p.panics {
		panic("provider exploded")
	}
	if p.block {
		<-ctx.Done()
		return nil, fmt.Errorf("%w: %v", imagegen.ErrUnavailable, ctx.Err())
	}
	if p.err != nil {
		return nil, p.err
	}
	return &imagegen.Image{Data: []byte("png"), ContentType: "image/png"}, nil
}

func (p *fakeProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.prompts)
}

type fakeImageStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	failErr error
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{files: make(map[string][]byte)}
}

func (s *fakeImageStore) Save(ctx context.Context, id string, data []byte, contentType string) (string, error) {
	if s.failErr != nil {
		return "", s.failErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ref := "/uploads/" + id + ".png"
	s.files[ref] = data
	return ref, nil
}

func (s *fakeImageStore) Delete(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, ref)
	return nil
}

func (s *fakeImageStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// fakeGateway keeps orders in memory. Tests flip states with setState.
type fakeGateway struct {
	mu        sync.Mutex
	orders    map[string]*payment.OrderStatus
	requests  []payment.OrderRequest
	createErr error
	fetchErr  error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{orders: make(map[string]*payment.OrderStatus)}
}

func (g *fakeGateway) CreateOrder(ctx context.Context, req payment.OrderRequest) (*payment.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.createErr != nil {
		return nil, g.createErr
	}
	orderId := "order-" + req.CorrelationId
	g.orders[orderId] = &payment.OrderStatus{
		OrderId:       orderId,
		CorrelationId: req.CorrelationId,
		State:         payment.OrderCreated,
		GatewayStatus: "pending",
	}
	return &payment.Order{
		OrderId:     orderId,
		Token:       "snap-token",
		RedirectURL: "https://pay.example/" + orderId,
		Raw:         map[string]interface{}{"token": "snap-token"},
	}, nil
}

func (g *fakeGateway) FetchOrder(ctx context.Context, orderId string) (*payment.OrderStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	o, ok := g.orders[orderId]
	if !ok {
		return nil, payment.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (g *fakeGateway) VerifyNotification(n payment.Notification) bool {
	return n.SignatureKey == "valid-signature"
}

func (g *fakeGateway) setState(orderId string, state payment.OrderState) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.orders[orderId].State = state
}

type recordingQueue struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (q *recordingQueue) Publish(ctx context.Context, payload []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.payloads = append(q.payloads, payload)
	return nil
}

func (q *recordingQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.payloads)
}

var errBoom = errors.New("boom")
