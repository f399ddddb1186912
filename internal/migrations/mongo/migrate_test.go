package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestCollections_CoverEveryStore(t *testing.T) {
	want := map[string]bool{
		UsersCollection:         true,
		HotelsCollection:        true,
		BookingsCollection:      true,
		BlogsCollection:         true,
		BookingLocksCollection:  true,
		SessionsCollection:      true,
		BookingEventsCollection: true,
	}

	defs := Collections()
	if len(defs) != len(want) {
		t.Fatalf("got %d collections, want %d", len(defs), len(want))
	}
	for _, def := range defs {
		if !want[def.Name] {
			t.Errorf("unexpected collection %s", def.Name)
		}
		if len(def.Indexes) == 0 {
			t.Errorf("%s has no indexes", def.Name)
		}
	}
}

func TestIndexes_Unique(t *testing.T) {
	unique := map[string]bool{}
	for _, def := range Collections() {
		for _, idx := range def.Indexes {
			if idx.Options != nil && idx.Options.Name != nil {
				unique[*idx.Options.Name] = idx.Options.Unique != nil && *idx.Options.Unique
			}
		}
	}

	for _, name := range []string{"username_unique", "email_unique", "slug_unique"} {
		if !unique[name] {
			t.Errorf("index %s missing or not unique", name)
		}
	}

	if opts := UsersIndexes[1].Options; opts.Sparse == nil || !*opts.Sparse {
		t.Error("email index must be sparse so users without email do not collide")
	}
}

func TestIndexes_TTL(t *testing.T) {
	tests := []struct {
		name    string
		indexes []mongo.IndexModel
	}{
		{name: "booking locks", indexes: BookingLocksIndexes},
		{name: "sessions", indexes: SessionsIndexes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := tt.indexes[0]
			ttl := idx.Options.ExpireAfterSeconds
			if ttl == nil || *ttl != 0 {
				t.Fatalf("expected expireAfterSeconds 0, got %v", ttl)
			}
		})
	}
}
