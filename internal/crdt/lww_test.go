package crdt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/zapsync/internal/models"
)

func newTestMap(nodeID string) *LWWMap {
	return NewLWWMap(NewLamportClockWithNodeID(nodeID))
}

func TestLWWMap_SetGetDelete(t *testing.T) {
	m := newTestMap("node-a")

	reg := m.Set("name", json.RawMessage(`"Ana"`))
	assert.Equal(t, int64(1), reg.Timestamp)
	assert.Equal(t, "node-a", reg.NodeID)

	value, ok := m.Get("name")
	require.True(t, ok)
	assert.JSONEq(t, `"Ana"`, string(value))

	m.Set("name", json.RawMessage(`"Bob"`))
	value, _ = m.Get("name")
	assert.JSONEq(t, `"Bob"`, string(value))

	del := m.Delete("name")
	assert.True(t, del.Deleted)
	_, ok = m.Get("name")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())

	// Tombstone сохраняется в состоянии
	state := m.State("contact", "c1")
	require.Len(t, state.Registers, 1)
	assert.True(t, state.Registers[0].Deleted)
	assert.Equal(t, int64(3), state.Clock)
}

func TestLWWMap_DataIsCopy(t *testing.T) {
	m := newTestMap("node-a")
	m.Set("tags", json.RawMessage(`["vip"]`))

	data := m.Data()
	data["tags"][2] = 'X'
	delete(data, "tags")

	value, ok := m.Get("tags")
	require.True(t, ok)
	assert.JSONEq(t, `["vip"]`, string(value))
}

func TestLWWMap_Apply(t *testing.T) {
	tests := []struct {
		name        string
		existing    *models.Register
		incoming    *models.Register
		wantChanged bool
		wantValue   string
		wantPresent bool
	}{
		{
			name:        "new key",
			incoming:    &models.Register{Key: "k", NodeID: "b", Timestamp: 1, Value: json.RawMessage(`1`)},
			wantChanged: true,
			wantValue:   `1`,
			wantPresent: true,
		},
		{
			name:        "newer timestamp wins",
			existing:    &models.Register{Key: "k", NodeID: "a", Timestamp: 1, Value: json.RawMessage(`1`)},
			incoming:    &models.Register{Key: "k", NodeID: "b", Timestamp: 2, Value: json.RawMessage(`2`)},
			wantChanged: true,
			wantValue:   `2`,
			wantPresent: true,
		},
		{
			name:        "older timestamp loses",
			existing:    &models.Register{Key: "k", NodeID: "a", Timestamp: 5, Value: json.RawMessage(`1`)},
			incoming:    &models.Register{Key: "k", NodeID: "b", Timestamp: 2, Value: json.RawMessage(`2`)},
			wantChanged: false,
			wantValue:   `1`,
			wantPresent: true,
		},
		{
			name:        "equal timestamp larger node wins",
			existing:    &models.Register{Key: "k", NodeID: "a", Timestamp: 3, Value: json.RawMessage(`1`)},
			incoming:    &models.Register{Key: "k", NodeID: "b", Timestamp: 3, Value: json.RawMessage(`2`)},
			wantChanged: true,
			wantValue:   `2`,
			wantPresent: true,
		},
		{
			name:        "equal timestamp smaller node loses",
			existing:    &models.Register{Key: "k", NodeID: "b", Timestamp: 3, Value: json.RawMessage(`1`)},
			incoming:    &models.Register{Key: "k", NodeID: "a", Timestamp: 3, Value: json.RawMessage(`2`)},
			wantChanged: false,
			wantValue:   `1`,
			wantPresent: true,
		},
		{
			name:        "newer tombstone deletes",
			existing:    &models.Register{Key: "k", NodeID: "a", Timestamp: 1, Value: json.RawMessage(`1`)},
			incoming:    &models.Register{Key: "k", NodeID: "b", Timestamp: 2, Deleted: true},
			wantChanged: true,
			wantPresent: false,
		},
		{
			name:        "tombstone for unknown key is invisible",
			incoming:    &models.Register{Key: "k", NodeID: "b", Timestamp: 2, Deleted: true},
			wantChanged: false,
			wantPresent: false,
		},
		{
			name:        "same value from newer write is invisible",
			existing:    &models.Register{Key: "k", NodeID: "a", Timestamp: 1, Value: json.RawMessage(`1`)},
			incoming:    &models.Register{Key: "k", NodeID: "b", Timestamp: 2, Value: json.RawMessage(`1`)},
			wantChanged: false,
			wantValue:   `1`,
			wantPresent: true,
		},
		{
			name:        "empty key ignored",
			incoming:    &models.Register{NodeID: "b", Timestamp: 2, Value: json.RawMessage(`1`)},
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMap("local")
			if tt.existing != nil {
				m.Apply(tt.existing)
			}

			assert.Equal(t, tt.wantChanged, m.Apply(tt.incoming))

			value, ok := m.Get("k")
			assert.Equal(t, tt.wantPresent, ok)
			if tt.wantPresent {
				assert.JSONEq(t, tt.wantValue, string(value))
			}
		})
	}
}

func TestLWWMap_ApplyAdvancesClock(t *testing.T) {
	m := newTestMap("local")
	m.Apply(&models.Register{Key: "k", NodeID: "remote", Timestamp: 41, Value: json.RawMessage(`1`)})

	// Следующая локальная запись должна перекрыть удаленную
	reg := m.Set("k", json.RawMessage(`2`))
	assert.Equal(t, int64(42), reg.Timestamp)

	value, _ := m.Get("k")
	assert.JSONEq(t, `2`, string(value))
}

func TestLWWMap_Merge_DisjointKeysConverge(t *testing.T) {
	a := newTestMap("node-a")
	b := newTestMap("node-b")

	// Параллельные правки разных полей одного контакта
	a.Set("name", json.RawMessage(`"Ana"`))
	b.Set("phone", json.RawMessage(`"+5511999"`))

	stateA := a.State("contact", "c1")
	stateB := b.State("contact", "c1")

	assert.Equal(t, []string{"phone"}, a.Merge(stateB))
	assert.Equal(t, []string{"name"}, b.Merge(stateA))

	assert.Equal(t, a.Data(), b.Data())
	assert.Len(t, a.Data(), 2)
}

func TestLWWMap_Merge_ConcurrentSameKey(t *testing.T) {
	a := newTestMap("node-a")
	b := newTestMap("node-b")

	a.Set("status", json.RawMessage(`"active"`))
	b.Set("status", json.RawMessage(`"paused"`))

	a.Merge(b.State("automation", "x"))
	b.Merge(a.State("automation", "x"))

	// Равные timestamp: побеждает больший nodeID
	va, _ := a.Get("status")
	vb, _ := b.Get("status")
	assert.JSONEq(t, `"paused"`, string(va))
	assert.Equal(t, va, vb)
}

func TestLWWMap_Merge_Properties(t *testing.T) {
	a := newTestMap("node-a")
	b := newTestMap("node-b")
	c := newTestMap("node-c")

	a.Set("x", json.RawMessage(`1`))
	a.Set("y", json.RawMessage(`2`))
	b.Set("y", json.RawMessage(`3`))
	b.Delete("x")
	c.Set("z", json.RawMessage(`4`))
	c.Set("x", json.RawMessage(`5`))
	c.Set("x", json.RawMessage(`6`))

	sa, sb, sc := a.State("t", "1"), b.State("t", "1"), c.State("t", "1")

	// (a + b) + c
	left := newTestMap("left")
	left.Merge(sa)
	left.Merge(sb)
	left.Merge(sc)

	// c + (b + a)
	right := newTestMap("right")
	right.Merge(sc)
	right.Merge(sb)
	right.Merge(sa)

	assert.Equal(t, left.Data(), right.Data(), "merge should be commutative and associative")

	// Повторное слияние ничего не меняет
	before := left.Data()
	assert.Empty(t, left.Merge(sa))
	assert.Empty(t, left.Merge(sc))
	assert.Equal(t, before, left.Data(), "merge should be idempotent")

	assert.Nil(t, left.Merge(nil))
}

func TestLWWMap_State_Sorted(t *testing.T) {
	m := newTestMap("node-a")
	m.Set("b", json.RawMessage(`1`))
	m.Set("a", json.RawMessage(`2`))
	m.Set("c", json.RawMessage(`3`))

	state := m.State("contact", "c1")
	require.Len(t, state.Registers, 3)
	assert.Equal(t, "a", state.Registers[0].Key)
	assert.Equal(t, "b", state.Registers[1].Key)
	assert.Equal(t, "c", state.Registers[2].Key)
	assert.Equal(t, "contact", state.Type)
	assert.Equal(t, "c1", state.ID)
}
