package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	pkgerrors "github.com/yungbote/cinesync/internal/pkg/errors"
	"github.com/yungbote/cinesync/internal/pkg/logger"
)

type Client struct {
	Mongo    *mongo.Client
	Database string
	log      *logger.Logger
}

// New connects to the document store and pings it before returning, so a
// dead endpoint fails the run at startup rather than mid-batch.
func New(uri, database string, log *logger.Logger) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("mongodb: logger required")
	}

	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, fmt.Errorf("mongodb: uri required")
	}
	database = strings.TrimSpace(database)
	if database == "" {
		return nil, fmt.Errorf("mongodb: database required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb: ping: %w: %w", pkgerrors.ErrSourceUnavailable, err)
	}

	return &Client{
		Mongo:    client,
		Database: database,
		log:      log.With("client", "MongoDB"),
	}, nil
}

func (c *Client) Collection(name string) *mongo.Collection {
	return c.Mongo.Database(c.Database).Collection(name)
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.Mongo == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := c.Mongo.Disconnect(ctx)
	c.Mongo = nil
	return err
}
