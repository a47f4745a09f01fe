package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genrex/internal/services"
	"github.com/desertthunder/genrex/internal/shared"
	"github.com/desertthunder/genrex/internal/tasks"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	DefaultMongoDatabase   = "bestai"
	DefaultMongoCollection = "best"
)

// Display fallbacks for documents missing a field.
const (
	UnknownTrack  = "Unknown Track"
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
	UnknownYear   = "Unknown Year"
)

// documentCollection is the subset of *mongo.Collection used by [DocumentStore].
type documentCollection interface {
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
	UpdateOne(ctx context.Context, filter any, update any, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

// TrackDocument is the projected view of one track document.
type TrackDocument struct {
	ID       any    `json:"-"`
	Track    string `json:"track"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Year     string `json:"year"`
	Playlist string `json:"playlist,omitempty"`
}

// Query returns the lookup for the document.
func (d TrackDocument) Query() services.TrackQuery {
	return services.TrackQuery{Artist: d.Artist, Track: d.Track}
}

// DocumentStore reads and updates track documents held in MongoDB.
//
// It implements tasks.Sink: a resolved item carries its document _id in [tasks.Item.Payload].
type DocumentStore struct {
	client     *mongo.Client
	collection documentCollection
	database   string
	logger     *log.Logger
}

// ConnectDocumentStore connects to cfg.URI. The database comes from the URI path, then
// cfg.Database, then [DefaultMongoDatabase].
func ConnectDocumentStore(ctx context.Context, cfg shared.MongoConfig, logger *log.Logger) (*DocumentStore, error) {
	if shared.IsBlank(cfg.URI) {
		return nil, fmt.Errorf("%w: mongo uri is empty", shared.ErrMissingConfig)
	}

	database, err := ResolveDatabaseName(cfg)
	if err != nil {
		return nil, err
	}

	collection := cfg.Collection
	if collection == "" {
		collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to mongo: %v", shared.ErrServiceUnavailable, err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: failed to ping mongo: %v", shared.ErrServiceUnavailable, err)
	}

	store := newDocumentStore(client.Database(database).Collection(collection), logger)
	store.client = client
	store.database = database
	return store, nil
}

func newDocumentStore(collection documentCollection, logger *log.Logger) *DocumentStore {
	if logger == nil {
		logger = log.Default()
	}
	return &DocumentStore{collection: collection, logger: logger}
}

// ResolveDatabaseName picks the database for cfg.
func ResolveDatabaseName(cfg shared.MongoConfig) (string, error) {
	cs, err := connstring.ParseAndValidate(cfg.URI)
	if err != nil {
		return "", fmt.Errorf("%w: invalid mongo uri: %v", shared.ErrInvalidConfig, err)
	}
	switch {
	case cs.Database != "":
		return cs.Database, nil
	case cfg.Database != "":
		return cfg.Database, nil
	default:
		return DefaultMongoDatabase, nil
	}
}

// Database returns the connected database name.
func (s *DocumentStore) Database() string { return s.database }

// MissingGenreFilter matches documents whose genre is absent, null, empty or a single space.
func MissingGenreFilter() bson.M {
	return bson.M{
		"$or": bson.A{
			bson.M{"genre": bson.M{"$exists": false}},
			bson.M{"genre": nil},
			bson.M{"genre": ""},
			bson.M{"genre": " "},
		},
	}
}

// MissingGenreProjection limits results to the fields needed for a lookup and its report.
func MissingGenreProjection() bson.M {
	return bson.M{
		"_id":      1,
		"track":    1,
		"artist":   1,
		"album":    1,
		"year":     1,
		"playlist": 1,
	}
}

// FindMissingGenres returns every document without a usable genre.
func (s *DocumentStore) FindMissingGenres(ctx context.Context) ([]TrackDocument, error) {
	opts := options.Find().SetProjection(MissingGenreProjection())

	cursor, err := s.collection.Find(ctx, MissingGenreFilter(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []TrackDocument
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		docs = append(docs, DocumentFromBSON(raw))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	s.logger.Debug("found documents with missing genre", "count", len(docs))
	return docs, nil
}

// DocumentFromBSON converts a raw document, applying display fallbacks.
func DocumentFromBSON(raw bson.M) TrackDocument {
	return TrackDocument{
		ID:       raw["_id"],
		Track:    stringField(raw, "track", UnknownTrack),
		Artist:   stringField(raw, "artist", UnknownArtist),
		Album:    stringField(raw, "album", UnknownAlbum),
		Year:     stringField(raw, "year", UnknownYear),
		Playlist: stringField(raw, "playlist", ""),
	}
}

func stringField(raw bson.M, key, fallback string) string {
	switch v := raw[key].(type) {
	case nil:
		return fallback
	case string:
		if strings.TrimSpace(v) == "" {
			return fallback
		}
		return v
	default:
		return fmt.Sprint(v)
	}
}

// DocumentID renders a document _id for display and batch item ids.
func DocumentID(id any) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Items converts documents into batch items carrying their _id.
func Items(docs []TrackDocument) []tasks.Item {
	items := make([]tasks.Item, len(docs))
	for i, d := range docs {
		items[i] = tasks.Item{ID: DocumentID(d.ID), Query: d.Query(), Payload: d.ID}
	}
	return items
}

// UpdateGenre sets the genre of the document with the given _id.
func (s *DocumentStore) UpdateGenre(ctx context.Context, id any, genre string) error {
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"genre": genre}})
	if err != nil {
		return fmt.Errorf("failed to update genre: %w", err)
	}
	if result != nil && result.MatchedCount == 0 {
		return fmt.Errorf("%w: document %s", shared.ErrRecordNotFound, DocumentID(id))
	}
	return nil
}

// Store persists a resolved batch item.
func (s *DocumentStore) Store(ctx context.Context, item tasks.Item, result tasks.ItemResult) error {
	if item.Payload == nil {
		return fmt.Errorf("%w: item %s has no document id", shared.ErrInvalidInput, item.ID)
	}
	return s.UpdateGenre(ctx, item.Payload, result.Genre)
}

// Close disconnects from the server.
func (s *DocumentStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
