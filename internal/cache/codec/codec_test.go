package codec

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/zapsync/internal/models"
)

func createTestSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Timestamp: 1_700_000_000_000,
		Buster:    "v1",
		ClientState: models.ClientState{
			Queries: []models.QueryRecord{
				models.NewQueryRecord([]string{"contacts", "abc"}, json.RawMessage(`{"id":"abc","name":"Ana"}`), time.UnixMilli(1000)),
				models.NewQueryRecord([]string{"automations"}, json.RawMessage(`[{"id":"1"},{"id":"2"}]`), time.UnixMilli(2000)),
			},
			Mutations: []models.MutationRecord{
				{
					MutationKey: []string{"contacts", "update"},
					State: models.MutationState{
						Status:      "pending",
						Variables:   json.RawMessage(`{"name":"Bob"}`),
						SubmittedAt: 3000,
					},
				},
			},
		},
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	snapshot := createTestSnapshot()

	text := Serialize(snapshot)
	assert.True(t, IsCompressed(text), "Serialize should prefer compressed format")

	restored := Deserialize(text)
	require.NotNil(t, restored)
	assert.Equal(t, snapshot.ClientState, restored.ClientState)
	assert.Equal(t, snapshot.Buster, restored.Buster)
	assert.Equal(t, snapshot.Timestamp, restored.Timestamp)
}

func TestSerialize_EmptySnapshot(t *testing.T) {
	snapshot := &models.Snapshot{
		ClientState: models.ClientState{
			Queries:   []models.QueryRecord{},
			Mutations: []models.MutationRecord{},
		},
	}

	restored := Deserialize(Serialize(snapshot))
	require.NotNil(t, restored)
	assert.True(t, restored.IsEmpty())
}

func TestSerialize_NilSnapshot(t *testing.T) {
	text := Serialize(nil)

	restored := Deserialize(text)
	require.NotNil(t, restored)
	assert.True(t, restored.IsEmpty())
}

func TestSerialize_CompressesLargeSnapshot(t *testing.T) {
	snapshot := &models.Snapshot{}
	for i := 0; i < 200; i++ {
		snapshot.ClientState.Queries = append(snapshot.ClientState.Queries,
			models.NewQueryRecord([]string{"contacts"}, json.RawMessage(`{"name":"same name repeated"}`), time.UnixMilli(1)))
	}

	plain, err := json.Marshal(snapshot)
	require.NoError(t, err)

	text := Serialize(snapshot)
	assert.Less(t, len(text), len(plain), "compressed text should be smaller than plain JSON")
}

func TestDeserialize_PlainJSON(t *testing.T) {
	// Снимки старого формата хранились без сжатия
	snapshot := createTestSnapshot()
	plain, err := json.Marshal(snapshot)
	require.NoError(t, err)

	restored := Deserialize(string(plain))
	require.NotNil(t, restored)
	assert.Equal(t, snapshot.ClientState, restored.ClientState)
}

func TestDeserialize_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty string", input: ""},
		{name: "whitespace", input: "   \n\t"},
		{name: "garbage", input: "not a snapshot"},
		{name: "truncated JSON", input: `{"clientState":{"queries":[`},
		{name: "JSON null", input: "null"},
		{name: "JSON array", input: "[1,2,3]"},
		{name: "JSON number", input: "42"},
		{name: "prefix without payload", input: CompressedPrefix},
		{name: "prefix with invalid base64", input: CompressedPrefix + "!!!"},
		{name: "prefix with non-deflate bytes", input: CompressedPrefix + base64.StdEncoding.EncodeToString([]byte("plain bytes"))},
		{name: "wrong field types", input: `{"clientState":{"queries":"oops"}}`},
		{name: "binary noise", input: string([]byte{0x00, 0xff, 0xfe, 0x01})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Nil(t, Deserialize(tt.input))
			})
		})
	}
}

func TestDeserialize_CorruptedCompressedPayload(t *testing.T) {
	text := Serialize(createTestSnapshot())

	// Отрезаем хвост сжатых данных
	corrupted := text[:len(text)/2]

	assert.NotPanics(t, func() {
		assert.Nil(t, Deserialize(corrupted))
	})
}

func TestDeserialize_CompressedNonObject(t *testing.T) {
	compressed, err := compress([]byte(`[1,2]`))
	require.NoError(t, err)

	assert.Nil(t, Deserialize(CompressedPrefix+compressed))
}

func TestIsCompressed(t *testing.T) {
	assert.True(t, IsCompressed(CompressedPrefix+"abc"))
	assert.True(t, IsCompressed("  "+CompressedPrefix+"abc"))
	assert.False(t, IsCompressed(`{"clientState":{}}`))
	assert.False(t, IsCompressed(strings.Repeat("z", 3)))
}
