package usecases_test

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"nft-storefront.backend/internal/domain/entities"
	domainerrors "nft-storefront.backend/internal/domain/errors"
	"nft-storefront.backend/internal/infrastructure/blockchain"
	"nft-storefront.backend/pkg/utils"
)

const (
	testAccount = "0x00000000000000000000000000000000000000Aa"
	sellerOne   = "0x1111111111111111111111111111111111111111"
	sellerTwo   = "0x2222222222222222222222222222222222222222"
	testNFT     = "0x22FB726b8f1C1Eef3644B2ee73aA943AF98d2414"
)

// memorySessions is an in-memory SessionRepository
type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]entities.WalletSession
	saveErr  error
	saves    int
}

func newMemorySessions(sessions ...*entities.WalletSession) *memorySessions {
	m := &memorySessions{sessions: map[string]entities.WalletSession{}}
	for _, s := range sessions {
		m.sessions[s.ID] = *s
	}
	return m
}

func (m *memorySessions) Save(_ context.Context, session *entities.WalletSession, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.sessions[session.ID] = *session
	return nil
}

func (m *memorySessions) Get(_ context.Context, id string) (*entities.WalletSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return &s, nil
}

func (m *memorySessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func connectedSession(id string) *entities.WalletSession {
	s := entities.NewWalletSession(id, time.Now())
	s.MarkConnected(testAccount, time.Now())
	return s
}

// Mock ActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Create(ctx context.Context, activity *entities.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Activity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Activity), args.Error(1)
}

func (m *MockActivityRepository) Update(ctx context.Context, activity *entities.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

// expectSubmitted expects the write that stores the tx hash before the
// receipt wait.
func (m *MockActivityRepository) expectSubmitted(hash common.Hash) *mock.Call {
	return m.On("Update", mock.Anything, mock.MatchedBy(func(a *entities.Activity) bool {
		return a.Status == entities.ActivityStatusSubmitted && a.TxHash.String == hash.Hex()
	})).Return(nil).Once()
}

func (m *MockActivityRepository) ListBySession(ctx context.Context, sessionID string, pagination utils.PaginationParams) ([]*entities.Activity, int64, error) {
	args := m.Called(ctx, sessionID, pagination)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Activity), args.Get(1).(int64), args.Error(2)
}

func (m *MockActivityRepository) ListStale(ctx context.Context, before time.Time, limit int) ([]*entities.Activity, error) {
	args := m.Called(ctx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Activity), args.Error(1)
}

// Mock WalletProvider
type MockWalletProvider struct {
	mock.Mock
}

func (m *MockWalletProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockWalletProvider) Accounts(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockWalletProvider) ChainID(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockWalletProvider) SwitchChain(ctx context.Context, chainID *big.Int) error {
	args := m.Called(ctx, chainID)
	return args.Error(0)
}

func (m *MockWalletProvider) AddChain(ctx context.Context, params blockchain.AddChainParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockWalletProvider) Signer(ctx context.Context, account string) (blockchain.ChainWriter, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(blockchain.ChainWriter), args.Error(1)
}

// fakeWriter is a ChainWriter whose receipts are scripted per test
type fakeWriter struct {
	account common.Address
	receipt *types.Receipt
	waitErr error
	wait    func(ctx context.Context) (*types.Receipt, error)
}

func (w *fakeWriter) ChainID() *big.Int { return big.NewInt(11155111) }
func (w *fakeWriter) CallView(context.Context, string, []byte) ([]byte, error) {
	return nil, nil
}
func (w *fakeWriter) Account() common.Address { return w.account }
func (w *fakeWriter) Transact(context.Context, string, abi.ABI, *big.Int, string, ...interface{}) (common.Hash, error) {
	return common.Hash{}, nil
}
func (w *fakeWriter) WaitMined(ctx context.Context, _ common.Hash) (*types.Receipt, error) {
	if w.wait != nil {
		return w.wait(ctx)
	}
	return w.receipt, w.waitErr
}

func successReceipt() *types.Receipt {
	return &types.Receipt{Status: types.ReceiptStatusSuccessful}
}

// fakeTokens serves ownerOf/tokenURI from maps and records mints
type fakeTokens struct {
	mu       sync.Mutex
	owners   map[int64]common.Address
	uris     map[int64]string
	uriErr   map[int64]error
	probed   []int64
	mintHash common.Hash
	mintErr  error
	minted   *big.Int
	mintTo   common.Address
	mintURI  string
}

func (f *fakeTokens) OwnerOf(_ context.Context, id *big.Int) (common.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probed = append(f.probed, id.Int64())
	owner, ok := f.owners[id.Int64()]
	if !ok {
		return common.Address{}, domainerrors.ErrContractCall
	}
	return owner, nil
}

func (f *fakeTokens) TokenURI(_ context.Context, id *big.Int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.uriErr[id.Int64()]; err != nil {
		return "", err
	}
	return f.uris[id.Int64()], nil
}

func (f *fakeTokens) MintNFT(_ context.Context, _ blockchain.ChainWriter, to common.Address, uri string) (common.Hash, error) {
	f.mintTo = to
	f.mintURI = uri
	return f.mintHash, f.mintErr
}

func (f *fakeTokens) MintedTokenID(*types.Receipt) (*big.Int, bool) {
	return f.minted, f.minted != nil
}

// fakeMarket returns a fixed listing set and records purchases
type fakeMarket struct {
	mu        sync.Mutex
	listings  []blockchain.MarketListing
	err       error
	scans     int
	queried   []*big.Int
	buyHash   common.Hash
	buyErr    error
	boughtID  *big.Int
	boughtFor *big.Int
}

func (f *fakeMarket) GetAllListings(_ context.Context, _ common.Address, ids []*big.Int) ([]blockchain.MarketListing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scans++
	f.queried = ids
	return f.listings, f.err
}

func (f *fakeMarket) BuyNFT(_ context.Context, _ blockchain.ChainWriter, listingID, value *big.Int) (common.Hash, error) {
	f.boughtID = listingID
	f.boughtFor = value
	return f.buyHash, f.buyErr
}

// stubResolver renders metadata without network access
type stubResolver struct{}

func (stubResolver) Resolve(_ context.Context, tokenID, uri string) entities.Metadata {
	if uri == "" {
		return entities.Metadata{Name: "NFT #" + tokenID, Description: "Token #" + tokenID, Source: entities.MetadataSourcePlaceholder}
	}
	return entities.Metadata{Name: "Doc " + tokenID, Image: uri, Source: entities.MetadataSourceJSON}
}

func ether(whole int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(whole), big.NewInt(1e18))
}

func listing(id int64, seller string, price *big.Int) blockchain.MarketListing {
	return blockchain.MarketListing{
		ID:          big.NewInt(id),
		NFTContract: common.HexToAddress(testNFT),
		TokenID:     big.NewInt(id),
		Seller:      common.HexToAddress(seller),
		Price:       price,
	}
}

// emptyListings is what getAllListings returns for ids without a listing
func emptyListings(ids ...int64) []blockchain.MarketListing {
	out := make([]blockchain.MarketListing, 0, len(ids))
	for _, id := range ids {
		out = append(out, blockchain.MarketListing{ID: big.NewInt(0), TokenID: big.NewInt(id), Price: big.NewInt(0)})
	}
	return out
}
