package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"grephl/internal/domain"
	"grephl/internal/eventbus"
	"grephl/internal/kvstore"
)

type fixture struct {
	store  *Store
	state  *StateStore
	kv     *kvstore.MemoryStore
	lists  [][]string
	loaded []domain.NamedConfig
	states []domain.LastActiveState
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{kv: kvstore.NewMemoryStore()}
	bus := eventbus.NewSync(zap.NewNop())
	bus.Subscribe(eventbus.EventSettingsListChanged, func(e eventbus.DomainEvent) {
		f.lists = append(f.lists, e.(eventbus.SettingsListChangedEvent).Names)
	})
	bus.Subscribe(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) {
		f.loaded = append(f.loaded, e.(eventbus.ConfigLoadedEvent).Config)
	})
	bus.Subscribe(eventbus.EventStateReplaced, func(e eventbus.DomainEvent) {
		f.states = append(f.states, e.(eventbus.StateReplacedEvent).State)
	})
	f.state = NewStateStore(f.kv, bus, zap.NewNop())
	f.store = NewStore(f.kv, f.state, bus, zap.NewNop())
	return f
}

var errHighlights = []domain.HighlightSpec{{Word: "err", Color: "red"}, {Word: "warn", Color: "yellow"}}

func TestSaveThenLoadReturnsSameConfig(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Save(ctx, "logs", []string{"err", "warn"}, errHighlights))
	got, err := f.store.Load(ctx, "logs")
	require.NoError(t, err)

	assert.Equal(t, "logs", got.Name)
	assert.Equal(t, []string{"err", "warn"}, got.Terms)
	assert.Equal(t, errHighlights, got.Highlights)
}

func TestLoadBecomesLastActiveState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, "logs", []string{"err"}, errHighlights))

	_, err := f.store.Load(ctx, "logs")
	require.NoError(t, err)

	st, ok, err := f.state.Current(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"err"}, st.Terms)
	assert.Equal(t, errHighlights, st.Highlights)
	assert.Equal(t, "logs", st.ActiveConfigName)
	require.Len(t, f.loaded, 1)
}

func TestSaveSameNameOverwrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, "a", []string{"one"}, nil))
	require.NoError(t, f.store.Save(ctx, "b", []string{"two"}, nil))
	require.NoError(t, f.store.Save(ctx, "a", []string{"three"}, nil))

	names, err := f.store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	got, err := f.store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"three"}, got.Terms)
}

func TestSaveWithoutNameIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.store.Save(ctx, "  ", []string{"x"}, nil)
	assert.ErrorIs(t, err, domain.ErrMissingName)

	names, err := f.store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.Empty(t, f.lists, "no broadcast on rejected save")
}

func TestSaveCleansDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Save(ctx, "n", []string{"", "x", " "}, []domain.HighlightSpec{
		{Word: "x", Color: "red"},
		{Word: "", Color: "blue"},
		{Word: "y", Color: "lime"},
		{Word: "x", Color: "aqua"},
	}))

	got, err := f.store.Get(ctx, "n")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, got.Terms)
	assert.Equal(t, []domain.HighlightSpec{{Word: "x", Color: "aqua"}, {Word: "y", Color: "lime"}}, got.Highlights)
}

func TestLoadUnknownName(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.Load(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)

	_, ok, err := f.state.Current(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, "a", []string{"x"}, nil))

	require.NoError(t, f.store.Delete(ctx, "nonexistent"))
	require.NoError(t, f.store.Delete(ctx, "a"))
	require.NoError(t, f.store.Delete(ctx, "a"))

	names, err := f.store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestDeleteWithoutName(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.store.Delete(context.Background(), ""), domain.ErrMissingName)
}

func TestMutationsBroadcastList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Save(ctx, "a", nil, nil))
	require.NoError(t, f.store.Save(ctx, "b", nil, nil))
	require.NoError(t, f.store.Delete(ctx, "a"))

	assert.Equal(t, [][]string{{"a"}, {"a", "b"}, {"b"}}, f.lists)
}

func TestStateReplaceBumpsVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.state.Replace(ctx, []string{"a"}, nil, "")
	require.NoError(t, err)
	second, err := f.state.Replace(ctx, []string{"b"}, errHighlights, "cfg")
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first.Version)
	assert.Equal(t, uint64(2), second.Version)

	st, ok, err := f.state.Current(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second, st)
	assert.Len(t, f.states, 2)
}

func TestStoreOverSQLite(t *testing.T) {
	db, err := kvstore.OpenSQLiteMemory()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	store := NewStore(db, NewStateStore(db, nil, nil), nil, nil)
	require.NoError(t, store.Save(ctx, "db", []string{"x"}, errHighlights))

	got, err := store.Load(ctx, "db")
	require.NoError(t, err)
	assert.Equal(t, errHighlights, got.Highlights)
}
