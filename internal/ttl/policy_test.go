package ttl

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type song struct {
	ID    string
	Title string
}

type member struct{ id string }

type recordKey string

func (m member) EntityID() string { return m.id }

func TestClassify(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  Shape
	}{
		{"long string", strings.Repeat("x", BlobMinChars+1), ShapeBlob},
		{"string at threshold", strings.Repeat("x", BlobMinChars), ShapeOther},
		{"large bytes", make([]byte, BlobMinChars+1), ShapeBlob},
		{"bulk slice", make([]int, CollectionMinItems+1), ShapeCollection},
		{"slice at threshold", make([]int, CollectionMinItems), ShapeOther},
		{"map with id", map[string]any{"id": 1}, ShapeEntity},
		{"map without id", map[string]any{"name": "x"}, ShapeOther},
		{"string map with id", map[string]string{"id": "u1", "zone": "SA"}, ShapeEntity},
		{"named string key with id", map[recordKey]int{"id": 7}, ShapeEntity},
		{"int keyed map", map[int]string{1: "id"}, ShapeOther},
		{"nil map", map[string]string(nil), ShapeOther},
		{"struct with ID", song{ID: "s1"}, ShapeEntity},
		{"pointer to struct with ID", &song{ID: "s1"}, ShapeEntity},
		{"identifiable", member{id: "m1"}, ShapeEntity},
		{"bool", true, ShapeOther},
		{"nil", nil, ShapeOther},
		{"nil pointer", (*song)(nil), ShapeOther},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.value))
		})
	}
}

func TestPolicy_LargerPayloadsLiveLonger(t *testing.T) {
	policy := NewPolicy(DefaultTiers(), 30*time.Second)

	blob := policy(strings.Repeat("x", 10001))
	entity := policy(map[string]any{"id": 1})
	scalar := policy(true)

	assert.Greater(t, blob, entity)
	assert.Greater(t, entity, scalar)
	assert.Equal(t, 30*time.Second, scalar)
}

func TestPolicy_ZeroTierFallsBack(t *testing.T) {
	policy := NewPolicy(Tiers{Blob: time.Hour}, time.Second)

	assert.Equal(t, time.Hour, policy(strings.Repeat("x", 10001)))
	assert.Equal(t, time.Second, policy(make([]int, 200)))
	assert.Equal(t, time.Second, policy(song{ID: "x"}))
}
