package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoStore struct {
	cli *mongo.Client
	db  string
}

func NewMongoStore(uri, dbName string) (*MongoStore, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, errors.New("MONGO_URI is empty")
	}
	if strings.TrimSpace(dbName) == "" {
		dbName = "xhsdn"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(ctx)
		return nil, err
	}

	downloads := cli.Database(dbName).Collection("downloads")
	_, err = downloads.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "post_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_post_created"),
		},
	})
	if err != nil {
		_ = cli.Disconnect(ctx)
		return nil, fmt.Errorf("mongo create indexes downloads: %w", err)
	}
	return &MongoStore{cli: cli, db: dbName}, nil
}

func (s *MongoStore) SaveDownload(ctx context.Context, rec Record) error {
	doc := bson.M{
		"post_id":         rec.PostID,
		"original_url":    rec.OriginalURL,
		"saved_path":      rec.SavedPath,
		"kind":            rec.Kind,
		"success":         rec.Success,
		"error":           rec.Error,
		"naming_template": rec.NamingTemplate,
		"created_at":      rec.CreatedAt.Unix(),
	}
	_, err := s.cli.Database(s.db).Collection("downloads").InsertOne(ctx, doc)
	return err
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.cli.Disconnect(ctx)
}
