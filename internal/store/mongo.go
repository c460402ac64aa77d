// Package store provides the optional article archive backed by MongoDB.
// The pipeline works without it; when configured it keeps a record of every
// dispatched article.
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/north-cloud/newsllm/internal/logger"
	"github.com/north-cloud/newsllm/internal/news"
)

const (
	connectTimeout     = 10 * time.Second
	articlesCollection = "articles"
)

// Mongo archives dispatched articles, upserting by (id, source) so re-runs
// do not duplicate records.
type Mongo struct {
	client   *mongo.Client
	articles *mongo.Collection
	logger   logger.Logger
}

// NewMongo connects to the archive database and verifies the connection. An
// unreachable endpoint is a configuration error surfaced here.
func NewMongo(uri, database string, log logger.Logger) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	log.Info("article archive initialized", logger.String("database", database))
	return &Mongo{
		client:   client,
		articles: client.Database(database).Collection(articlesCollection),
		logger:   log,
	}, nil
}

// Save upserts the article by its (id, source) identity.
func (s *Mongo) Save(ctx context.Context, article *news.Article) error {
	filter := bson.M{"id": article.ID, "source": article.Source}
	update := bson.M{"$set": article}

	_, err := s.articles.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("archive article %s: %w", article.ID, err)
	}
	s.logger.Debug("article archived",
		logger.String("article_id", article.ID),
		logger.String("source", article.Source))
	return nil
}

// Close disconnects from the archive.
func (s *Mongo) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
