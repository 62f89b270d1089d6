package source

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/orbit/pkg/cache"
	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/graph"
)

// Default MongoDB locations, matching the [source] config section.
const (
	DefaultDatabase   = "orbit"
	DefaultCollection = "snapshots"
)

const connectTimeout = 10 * time.Second

// MongoOptions configures [DialMongo].
type MongoOptions struct {
	URI        string
	Database   string      // DefaultDatabase when empty
	Collection string      // DefaultCollection when empty
	Logger     *log.Logger // defaults to log.Default()
}

// Mongo is a [Store] backed by a MongoDB collection. Each document is one
// snapshot with the snapshot name as _id.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *log.Logger
}

// DialMongo connects to MongoDB and verifies the connection with a ping.
func DialMongo(ctx context.Context, opts MongoOptions) (*Mongo, error) {
	if opts.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo uri is empty")
	}
	if opts.Database == "" {
		opts.Database = DefaultDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongo")
	}

	opts.Logger.Debug("connected to mongo", "database", opts.Database, "collection", opts.Collection)
	return NewMongo(client, opts.Database, opts.Collection, opts.Logger), nil
}

// NewMongo wraps an already connected client.
func NewMongo(client *mongo.Client, database, collection string, logger *log.Logger) *Mongo {
	if logger == nil {
		logger = log.Default()
	}
	return &Mongo{
		client: client,
		coll:   client.Database(database).Collection(collection),
		logger: logger,
	}
}

// Name implements [Source].
func (m *Mongo) Name() string { return "mongo" }

// Load implements [Source]. Transient network failures are retried.
func (m *Mongo) Load(ctx context.Context, name string) (graph.Snapshot, error) {
	if err := ValidateName(name); err != nil {
		return graph.Snapshot{}, err
	}

	var s graph.Snapshot
	err := cache.RetryWithBackoff(ctx, func() error {
		err := m.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&s)
		return classify(err)
	})
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return graph.Snapshot{}, notFound(name)
	}
	if err != nil {
		return graph.Snapshot{}, errors.Wrap(errors.ErrCodeNetwork, err, "load snapshot %q", name)
	}
	if err := s.Validate(); err != nil {
		return graph.Snapshot{}, err
	}
	return s, nil
}

// List implements [Source].
func (m *Mongo) List(ctx context.Context) ([]string, error) {
	var ids []any
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		ids, err = m.coll.Distinct(ctx, "_id", bson.M{})
		return classify(err)
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list snapshots")
	}

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if s, ok := id.(string); ok {
			names = append(names, s)
		}
	}
	slices.Sort(names)
	return names, nil
}

// Save upserts s under its name.
func (m *Mongo) Save(ctx context.Context, s graph.Snapshot) error {
	if err := ValidateName(s.Name); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}

	err := cache.RetryWithBackoff(ctx, func() error {
		_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": s.Name}, s.Sorted(), options.Replace().SetUpsert(true))
		return classify(err)
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "save snapshot %q", s.Name)
	}
	m.logger.Debug("saved snapshot", "name", s.Name, "nodes", len(s.Nodes))
	return nil
}

// Delete removes the snapshot called name.
func (m *Mongo) Delete(ctx context.Context, name string) error {
	res, err := m.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "delete snapshot %q", name)
	}
	if res.DeletedCount == 0 {
		return notFound(name)
	}
	return nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	if err := m.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	return nil
}

// classify marks transient driver errors as retryable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return cache.Retryable(err)
	}
	return err
}
