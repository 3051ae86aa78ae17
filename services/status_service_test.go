package services

import (
	"context"
	"errors"
	"testing"

	"camera-status-bot/models"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore keeps the document in memory and counts writes.
type memStore struct {
	doc     *models.Document
	saves   int
	loadErr error
	saveErr error
}

func (m *memStore) Load(_ context.Context) (*models.Document, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	// Hand out a shallow copy of the wallet slice like a remote fetch would.
	wallets := make([]models.Wallet, len(m.doc.Wallets))
	copy(wallets, m.doc.Wallets)
	return &models.Document{Wallets: wallets}, nil
}

func (m *memStore) Save(_ context.Context, doc *models.Document) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.doc = doc
	return nil
}

func newTestStatusService(store DocumentStore) *StatusService {
	return NewStatusService(store, nil, reconcilerAt(7, 0), nil)
}

func TestRunCycleWritesOnChange(t *testing.T) {
	store := &memStore{doc: &models.Document{Wallets: []models.Wallet{
		*registeredWallet(models.Num(16), models.Num(4), jstTime(5, 0)),
	}}}

	doc, changed, err := newTestStatusService(store).RunCycle(context.Background(), SourcePoll)
	require.NoError(t, err)

	assert.True(t, changed)
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, models.Num(8), doc.Wallets[0].EnableShots)
}

func TestRunCycleSkipsWriteWhenUnchanged(t *testing.T) {
	store := &memStore{doc: &models.Document{Wallets: []models.Wallet{
		{Name: "u", Address: "0x1", NFTs: []models.NFT{}},
	}}}

	_, changed, err := newTestStatusService(store).RunCycle(context.Background(), SourcePoll)
	require.NoError(t, err)

	assert.False(t, changed)
	assert.Equal(t, 0, store.saves)
}

func TestRunCycleLoadErrorAborts(t *testing.T) {
	store := &memStore{loadErr: errors.New("store down")}

	_, _, err := newTestStatusService(store).RunCycle(context.Background(), SourcePoll)
	assert.Error(t, err)
}

func TestRunCycleInvalidDocumentAborts(t *testing.T) {
	// A save failure must surface to the caller; no partial state is kept.
	store := &memStore{
		doc: &models.Document{Wallets: []models.Wallet{
			*registeredWallet(models.Num(16), models.Num(4), jstTime(5, 0)),
		}},
		saveErr: errors.New("write rejected"),
	}

	_, _, err := newTestStatusService(store).RunCycle(context.Background(), SourcePoll)
	assert.Error(t, err)
}

func TestApplyManualUpdateArmsOverrideAndSaves(t *testing.T) {
	store := &memStore{doc: &models.Document{Wallets: []models.Wallet{}}}
	svc := newTestStatusService(store)

	incoming := &models.Document{Wallets: []models.Wallet{
		*registeredWallet(models.Num(16), models.Num(3), jstTime(5, 0)),
	}}
	saved, err := svc.ApplyManualUpdate(context.Background(), incoming, true)
	require.NoError(t, err)

	assert.Equal(t, 1, store.saves)
	assert.True(t, saved.Wallets[0].ManualOverride)
	assert.Equal(t, models.Num(3), saved.Wallets[0].EnableShots)
}

func TestApplyManualUpdateRejectsInvalidDocument(t *testing.T) {
	store := &memStore{doc: &models.Document{Wallets: []models.Wallet{}}}
	svc := newTestStatusService(store)

	_, err := svc.ApplyManualUpdate(context.Background(), &models.Document{
		Wallets: []models.Wallet{{Name: "no address"}},
	}, true)

	assert.Error(t, err)
	assert.Equal(t, 0, store.saves)
}

func TestDisplayOrderDoesNotReorderDocument(t *testing.T) {
	doc := &models.Document{Wallets: []models.Wallet{
		rankWallet("a", models.Num(16), models.Num(2)),
		rankWallet("b", models.NullNum(), models.NullNum()),
	}}
	svc := newTestStatusService(&memStore{doc: doc})

	order := svc.DisplayOrder(doc)

	// Unregistered "b" leads the display order...
	assert.Equal(t, []string{"0xb", "0xa"}, order)
	// ...while the normalized document keeps its name order.
	assert.Equal(t, "a", doc.Wallets[0].Name)
}

func TestRunCycleWithFakeClockIsDeterministic(t *testing.T) {
	// Two cycles at the same instant: the second one finds nothing to do.
	store := &memStore{doc: &models.Document{Wallets: []models.Wallet{
		*registeredWallet(models.Num(16), models.Num(4), jstTime(5, 0)),
	}}}
	svc := NewStatusService(store, nil, NewReconciler(clockwork.NewFakeClockAt(jstTime(7, 0))), nil)

	doc1, _, err := svc.RunCycle(context.Background(), SourcePoll)
	require.NoError(t, err)
	doc2, changed, err := svc.RunCycle(context.Background(), SourcePoll)
	require.NoError(t, err)

	assert.Equal(t, doc1.Wallets[0].EnableShots, doc2.Wallets[0].EnableShots)
	assert.False(t, changed)
	assert.Equal(t, 1, store.saves)
}
