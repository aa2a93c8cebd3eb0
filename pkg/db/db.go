package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"voice-journal/pkg/domain"
)

const (
	journalCollection = "journals"
	taskCollection    = "tasks"
)

// Client wraps the MongoDB client and the journal/task collections
type Client struct {
	mongoClient *mongo.Client
	database    *mongo.Database
	journals    *mongo.Collection
	tasks       *mongo.Collection
}

// NewClient creates a new database client
func NewClient(connectionString, databaseName string) *Client {
	clientOptions := options.Client().ApplyURI(connectionString)
	mongoClient, err := mongo.Connect(context.Background(), clientOptions)
	if err != nil {
		// Return client with nil - error will be caught during Connect()
		return &Client{}
	}

	database := mongoClient.Database(databaseName)

	return &Client{
		mongoClient: mongoClient,
		database:    database,
		journals:    database.Collection(journalCollection),
		tasks:       database.Collection(taskCollection),
	}
}

// Connect verifies the connection to MongoDB
func (c *Client) Connect(ctx context.Context) error {
	if c.mongoClient == nil {
		return fmt.Errorf("mongo client not initialized")
	}
	return c.mongoClient.Ping(ctx, nil)
}

// Close closes the MongoDB connection
func (c *Client) Close(ctx context.Context) error {
	if c.mongoClient == nil {
		return nil
	}
	return c.mongoClient.Disconnect(ctx)
}

type journalDoc struct {
	ID         string    `bson:"_id"`
	Title      string    `bson:"title"`
	Content    string    `bson:"content"`
	Summary    string    `bson:"summary"`
	Keywords   string    `bson:"keywords"`
	Timestamps string    `bson:"timestamps"`
	AudioURL   string    `bson:"audio_url"`
	CreatedAt  time.Time `bson:"created_at"`
}

type taskDoc struct {
	ID        string    `bson:"_id"`
	Title     string    `bson:"title"`
	StartTime time.Time `bson:"start_time"`
	EndTime   time.Time `bson:"end_time"`
	Priority  string    `bson:"priority"`
	Notes     string    `bson:"notes"`
	AudioURL  string    `bson:"audio_url"`
	CreatedAt time.Time `bson:"created_at"`
}

// CreateJournal inserts a journal entry
func (c *Client) CreateJournal(ctx context.Context, j *domain.Journal) error {
	if c.journals == nil {
		return fmt.Errorf("collection not initialized")
	}
	prepareJournal(j)

	doc := journalDoc{
		ID: j.ID, Title: j.Title, Content: j.Content, Summary: j.Summary,
		Keywords: joinList(j.Keywords), Timestamps: joinList(j.Timestamps),
		AudioURL: j.AudioURL, CreatedAt: j.CreatedAt,
	}
	if _, err := c.journals.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert journal id=%q: %w", j.ID, err)
	}
	return nil
}

// CreateTask inserts a task
func (c *Client) CreateTask(ctx context.Context, t *domain.Task) error {
	if c.tasks == nil {
		return fmt.Errorf("collection not initialized")
	}
	prepareTask(t)

	doc := taskDoc{
		ID: t.ID, Title: t.Title, StartTime: t.StartTime, EndTime: t.EndTime,
		Priority: string(t.Priority), Notes: t.Notes, AudioURL: t.AudioURL, CreatedAt: t.CreatedAt,
	}
	if _, err := c.tasks.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert task id=%q: %w", t.ID, err)
	}
	return nil
}

// ListJournals returns the newest journal entries first
func (c *Client) ListJournals(ctx context.Context, limit int) ([]domain.Journal, error) {
	if c.journals == nil {
		return nil, fmt.Errorf("collection not initialized")
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(listLimit(limit)))
	cursor, err := c.journals.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query journals: %w", err)
	}
	defer cursor.Close(ctx)

	journals := []domain.Journal{}
	for cursor.Next(ctx) {
		var d journalDoc
		if err := cursor.Decode(&d); err != nil {
			continue // Skip invalid documents
		}
		journals = append(journals, domain.Journal{
			ID: d.ID, Title: d.Title, Content: d.Content, Summary: d.Summary,
			Keywords: splitList(d.Keywords), Timestamps: splitList(d.Timestamps),
			AudioURL: d.AudioURL, CreatedAt: d.CreatedAt,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return journals, nil
}

// ListTasks returns tasks with the latest start time first
func (c *Client) ListTasks(ctx context.Context, limit int) ([]domain.Task, error) {
	if c.tasks == nil {
		return nil, fmt.Errorf("collection not initialized")
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: -1}}).
		SetLimit(int64(listLimit(limit)))
	cursor, err := c.tasks.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []domain.Task{}
	for cursor.Next(ctx) {
		var d taskDoc
		if err := cursor.Decode(&d); err != nil {
			continue // Skip invalid documents
		}
		tasks = append(tasks, domain.Task{
			ID: d.ID, Title: d.Title, StartTime: d.StartTime, EndTime: d.EndTime,
			Priority: domain.ParsePriority(d.Priority), Notes: d.Notes,
			AudioURL: d.AudioURL, CreatedAt: d.CreatedAt,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return tasks, nil
}
