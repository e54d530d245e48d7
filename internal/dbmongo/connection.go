// Package dbmongo keeps uploaded media in GridFS and the optional text search index.
package dbmongo

import (
	"context"
	"fmt"
	"log"

	"gofun/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultMediaBucket      = "fun_media"
	defaultSearchCollection = "fun_search"
)

// MongoClient bundles the handles the media store and the tag index share.
type MongoClient struct {
	Client   *mongo.Client
	Database *mongo.Database
	GridFS   *gridfs.Bucket

	searchCollection string
}

// NewMongoConnection connects, pings the primary and opens the media bucket,
// all within the configured connect timeout.
func NewMongoConnection(c *config.Config) (*MongoClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.MongoConnectTimeout())
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions(c))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb at %s:%s: %w", c.MongoDB.Host, c.MongoDB.Port, err)
	}

	names := collectionNames(c)
	database := client.Database(c.MongoDB.Database)
	bucket, err := gridfs.NewBucket(database, options.GridFSBucket().SetName(names.bucket))
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("open gridfs bucket %s: %w", names.bucket, err)
	}

	log.Printf("✅ Connected to MongoDB database %s (media bucket %s)", c.MongoDB.Database, names.bucket)
	return &MongoClient{
		Client:           client,
		Database:         database,
		GridFS:           bucket,
		searchCollection: names.search,
	}, nil
}

// SearchCollection holds the documents of the mongo search backend.
func (mc *MongoClient) SearchCollection() *mongo.Collection {
	name := mc.searchCollection
	if name == "" {
		name = defaultSearchCollection
	}
	return mc.Database.Collection(name)
}

func (mc *MongoClient) Close(ctx context.Context) error {
	return mc.Client.Disconnect(ctx)
}

func clientOptions(c *config.Config) *options.ClientOptions {
	timeout := c.MongoConnectTimeout()
	opts := options.Client().
		ApplyURI(c.GetMongoURI()).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	if name := c.Tracing.ServiceName; name != "" {
		opts.SetAppName(name)
	}
	return opts
}

type mongoNames struct {
	bucket string
	search string
}

func collectionNames(c *config.Config) mongoNames {
	names := mongoNames{bucket: c.MongoDB.MediaBucket, search: c.MongoDB.SearchCollection}
	if names.bucket == "" {
		names.bucket = defaultMediaBucket
	}
	if names.search == "" {
		names.search = defaultSearchCollection
	}
	return names
}
