package ttl

import (
	"reflect"
	"time"
	"unicode/utf8"
)

// Size thresholds used to classify a value when the caller gives no TTL.
const (
	BlobMinChars       = 10_000
	CollectionMinItems = 100
)

// Tiers holds the TTLs handed out by the policy.
type Tiers struct {
	Blob       time.Duration `yaml:"blob"`       // large strings
	Collection time.Duration `yaml:"collection"` // bulk lists
	Entity     time.Duration `yaml:"entity"`     // single records with an id
}

// DefaultTiers returns the tiers used when a profile does not override them.
func DefaultTiers() Tiers {
	return Tiers{
		Blob:       10 * time.Minute,
		Collection: 5 * time.Minute,
		Entity:     2 * time.Minute,
	}
}

// Identifiable is implemented by domain records that carry their own id.
type Identifiable interface {
	EntityID() string
}

// Policy maps a value to a TTL. It must be pure.
type Policy func(value any) time.Duration

// NewPolicy builds the shape heuristic: expensive payloads live longer.
// Anything that matches no tier gets fallback. A zero tier also falls back.
func NewPolicy(tiers Tiers, fallback time.Duration) Policy {
	pick := func(d time.Duration) time.Duration {
		if d <= 0 {
			return fallback
		}
		return d
	}

	return func(value any) time.Duration {
		switch Classify(value) {
		case ShapeBlob:
			return pick(tiers.Blob)
		case ShapeCollection:
			return pick(tiers.Collection)
		case ShapeEntity:
			return pick(tiers.Entity)
		}
		return fallback
	}
}

// Shape is the coarse classification the policy keys on.
type Shape int

const (
	ShapeOther Shape = iota
	ShapeBlob
	ShapeCollection
	ShapeEntity
)

// Classify reports the shape of value. Rules are evaluated in order and
// the first match wins.
func Classify(value any) Shape {
	switch v := value.(type) {
	case nil:
		return ShapeOther
	case string:
		if utf8.RuneCountInString(v) > BlobMinChars {
			return ShapeBlob
		}
		return ShapeOther
	case []byte:
		if len(v) > BlobMinChars {
			return ShapeBlob
		}
		return ShapeOther
	case Identifiable:
		return ShapeEntity
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Len() > CollectionMinItems {
			return ShapeCollection
		}
	case reflect.Map:
		return mapShape(rv)
	case reflect.Pointer:
		if rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			return ShapeOther
		}
		return structShape(rv.Elem())
	case reflect.Struct:
		return structShape(rv)
	}
	return ShapeOther
}

func structShape(rv reflect.Value) Shape {
	if f, ok := rv.Type().FieldByName("ID"); ok && f.IsExported() {
		return ShapeEntity
	}
	return ShapeOther
}

// mapShape treats any string-keyed map carrying an "id" key as a record.
func mapShape(rv reflect.Value) Shape {
	keyType := rv.Type().Key()
	if keyType.Kind() != reflect.String {
		return ShapeOther
	}
	if rv.MapIndex(reflect.ValueOf("id").Convert(keyType)).IsValid() {
		return ShapeEntity
	}
	return ShapeOther
}
