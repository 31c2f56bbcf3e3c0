package pgmq

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Client wraps a Postgres DB for pgmq queue operations. It satisfies
// pubsub.Publisher, with the queue name standing in for the topic.
type Client struct {
	db *sql.DB
}

// New returns a new PGMQ client backed by the given DB connection.
func New(db *sql.DB) *Client {
	return &Client{db: db}
}

// Open connects to dsn and makes sure queue exists.
func Open(ctx context.Context, dsn, queue string) (*Client, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("pgmq open failed: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pgmq ping failed: %w", err)
	}
	db.SetMaxOpenConns(2)

	c := New(db)
	if err := c.CreateQueue(ctx, queue); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// CreateQueue creates queue if it does not exist yet.
func (c *Client) CreateQueue(ctx context.Context, queue string) error {
	if _, err := c.db.ExecContext(ctx, "SELECT pgmq.create($1)", queue); err != nil {
		return fmt.Errorf("pgmq create failed: %w", err)
	}
	return nil
}

// Send pushes a JSON payload into the given queue and returns the message id.
func (c *Client) Send(ctx context.Context, queue string, payload []byte) (int64, error) {
	var id int64
	query := "SELECT pgmq.send($1, $2::jsonb, 0)"
	if err := c.db.QueryRowContext(ctx, query, queue, string(payload)).Scan(&id); err != nil {
		return 0, fmt.Errorf("pgmq send failed: %w", err)
	}
	return id, nil
}

// Publish sends payload to the queue named topic.
func (c *Client) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	id, err := c.Send(ctx, topic, payload)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 10), nil
}

func (c *Client) Close() error {
	return c.db.Close()
}
