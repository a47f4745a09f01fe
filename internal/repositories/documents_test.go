package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/genrex/internal/shared"
	"github.com/desertthunder/genrex/internal/tasks"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeCollection struct {
	docs    []any
	filter  any
	opts    []*options.FindOptions
	updates []bson.M
	matched int64
}

func (f *fakeCollection) Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	f.filter = filter
	f.opts = opts
	return mongo.NewCursorFromDocuments(f.docs, nil, nil)
}

func (f *fakeCollection) UpdateOne(ctx context.Context, filter any, update any, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	f.updates = append(f.updates, bson.M{"filter": filter, "update": update})
	return &mongo.UpdateResult{MatchedCount: f.matched, ModifiedCount: f.matched}, nil
}

func TestResolveDatabaseName(t *testing.T) {
	tests := []struct {
		name string
		cfg  shared.MongoConfig
		want string
	}{
		{"FromURIPath", shared.MongoConfig{URI: "mongodb://localhost:27017/music", Database: "other"}, "music"},
		{"FromConfig", shared.MongoConfig{URI: "mongodb://localhost:27017", Database: "other"}, "other"},
		{"Default", shared.MongoConfig{URI: "mongodb://localhost:27017/"}, DefaultMongoDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDatabaseName(tt.cfg)
			if err != nil {
				t.Fatalf("ResolveDatabaseName failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	t.Run("InvalidURI", func(t *testing.T) {
		_, err := ResolveDatabaseName(shared.MongoConfig{URI: "http://localhost"})
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestConnectDocumentStoreRequiresURI(t *testing.T) {
	_, err := ConnectDocumentStore(context.Background(), shared.MongoConfig{URI: "  "}, nil)
	if !errors.Is(err, shared.ErrMissingConfig) {
		t.Errorf("expected ErrMissingConfig, got %v", err)
	}
}

func TestMissingGenreFilter(t *testing.T) {
	filter := MissingGenreFilter()

	clauses, ok := filter["$or"].(bson.A)
	if !ok {
		t.Fatalf("expected $or clause, got %#v", filter)
	}
	if len(clauses) != 4 {
		t.Fatalf("expected 4 clauses, got %d", len(clauses))
	}

	exists, ok := clauses[0].(bson.M)["genre"].(bson.M)
	if !ok || exists["$exists"] != false {
		t.Errorf("first clause should match a missing genre, got %#v", clauses[0])
	}

	var values []any
	for _, c := range clauses[1:] {
		values = append(values, c.(bson.M)["genre"])
	}
	if values[0] != nil || values[1] != "" || values[2] != " " {
		t.Errorf("unexpected equality clauses %#v", values)
	}
}

func TestMissingGenreProjection(t *testing.T) {
	projection := MissingGenreProjection()
	for _, field := range []string{"_id", "track", "artist", "album", "year", "playlist"} {
		if projection[field] != 1 {
			t.Errorf("projection should include %s", field)
		}
	}
	if _, ok := projection["genre"]; ok {
		t.Error("projection should not include genre")
	}
}

func TestDocumentFromBSON(t *testing.T) {
	t.Run("AllFields", func(t *testing.T) {
		doc := DocumentFromBSON(bson.M{
			"_id":      "abc",
			"track":    "Creep",
			"artist":   "Radiohead",
			"album":    "Pablo Honey",
			"year":     int32(1993),
			"playlist": "90s",
		})

		if doc.ID != "abc" || doc.Track != "Creep" || doc.Artist != "Radiohead" || doc.Album != "Pablo Honey" {
			t.Errorf("unexpected document %+v", doc)
		}
		if doc.Year != "1993" {
			t.Errorf("expected numeric year rendered as 1993, got %q", doc.Year)
		}
		if doc.Playlist != "90s" {
			t.Errorf("expected playlist 90s, got %q", doc.Playlist)
		}
	})

	t.Run("Fallbacks", func(t *testing.T) {
		doc := DocumentFromBSON(bson.M{"_id": 1, "track": " "})

		if doc.Track != UnknownTrack || doc.Artist != UnknownArtist || doc.Album != UnknownAlbum || doc.Year != UnknownYear {
			t.Errorf("expected fallbacks, got %+v", doc)
		}
		if doc.Playlist != "" {
			t.Errorf("expected empty playlist, got %q", doc.Playlist)
		}
	})
}

func TestDocumentID(t *testing.T) {
	oid := primitive.NewObjectID()

	tests := []struct {
		name string
		id   any
		want string
	}{
		{"ObjectID", oid, oid.Hex()},
		{"String", "abc", "abc"},
		{"Int", int32(7), "7"},
		{"Nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DocumentID(tt.id); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDocumentStore(t *testing.T) {
	ctx := context.Background()

	t.Run("FindMissingGenres", func(t *testing.T) {
		coll := &fakeCollection{docs: []any{
			bson.M{"_id": "1", "track": "Creep", "artist": "Radiohead", "album": "Pablo Honey", "year": "1993"},
			bson.M{"_id": "2", "artist": "Unknown Pleasures"},
		}}
		store := newDocumentStore(coll, nil)

		docs, err := store.FindMissingGenres(ctx)
		if err != nil {
			t.Fatalf("FindMissingGenres failed: %v", err)
		}
		if len(docs) != 2 {
			t.Fatalf("expected 2 documents, got %d", len(docs))
		}
		if docs[0].Artist != "Radiohead" || docs[1].Track != UnknownTrack {
			t.Errorf("unexpected documents %+v", docs)
		}
		if _, ok := coll.filter.(bson.M)["$or"]; !ok {
			t.Errorf("expected missing genre filter, got %#v", coll.filter)
		}
		if len(coll.opts) != 1 || coll.opts[0].Projection == nil {
			t.Error("expected projection option")
		}

		items := Items(docs)
		if len(items) != 2 || items[0].ID != "1" || items[0].Payload != "1" || items[0].Query.Track != "Creep" {
			t.Errorf("unexpected items %+v", items)
		}
	})

	t.Run("Store", func(t *testing.T) {
		coll := &fakeCollection{matched: 1}
		store := newDocumentStore(coll, nil)

		item := tasks.Item{ID: "1", Payload: "1"}
		if err := store.Store(ctx, item, tasks.ItemResult{Item: item, Genre: "Rock/Pop", Status: tasks.StatusResolved}); err != nil {
			t.Fatalf("Store failed: %v", err)
		}

		if len(coll.updates) != 1 {
			t.Fatalf("expected 1 update, got %d", len(coll.updates))
		}
		if coll.updates[0]["filter"].(bson.M)["_id"] != "1" {
			t.Errorf("unexpected filter %#v", coll.updates[0]["filter"])
		}
		set := coll.updates[0]["update"].(bson.M)["$set"].(bson.M)
		if set["genre"] != "Rock/Pop" {
			t.Errorf("expected $set genre Rock/Pop, got %#v", set)
		}
	})

	t.Run("StoreWithoutID", func(t *testing.T) {
		store := newDocumentStore(&fakeCollection{matched: 1}, nil)

		err := store.Store(ctx, tasks.Item{ID: "x"}, tasks.ItemResult{Genre: "Jazz"})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("UpdateGenreNotMatched", func(t *testing.T) {
		store := newDocumentStore(&fakeCollection{}, nil)

		if err := store.UpdateGenre(ctx, "missing", "Jazz"); !errors.Is(err, shared.ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound, got %v", err)
		}
	})

	t.Run("CloseWithoutClient", func(t *testing.T) {
		if err := newDocumentStore(&fakeCollection{}, nil).Close(ctx); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})

	t.Run("SatisfiesSink", func(t *testing.T) {
		var _ tasks.Sink = newDocumentStore(&fakeCollection{}, nil)
	})
}
