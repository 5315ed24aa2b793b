package repository

import (
	"context"

	"github.com/deppfellow/storefront/internal/database"
	"github.com/deppfellow/storefront/internal/dberr"
	"github.com/deppfellow/storefront/internal/model/task"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type taskDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Completed *bool              `bson:"completed,omitempty"`
}

func (d taskDocument) toTask() task.Task {
	return task.Task{ID: d.ID.Hex(), Name: d.Name, Completed: d.Completed}
}

type MongoTaskRepository struct {
	collection *mongo.Collection
}

func NewMongoTaskRepository(db *mongo.Database) *MongoTaskRepository {
	return &MongoTaskRepository{collection: db.Collection(database.TasksCollection)}
}

func (r *MongoTaskRepository) ListTasks(ctx context.Context) ([]task.Task, error) {
	cursor, err := r.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "find tasks")
	}

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode tasks")
	}

	tasks := make([]task.Task, 0, len(docs))
	for _, d := range docs {
		tasks = append(tasks, d.toTask())
	}
	return tasks, nil
}

func (r *MongoTaskRepository) CreateTask(ctx context.Context, payload *task.CreateTaskPayload) (*task.Task, error) {
	doc := taskDocument{ID: primitive.NewObjectID(), Name: payload.Name, Completed: payload.Completed}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, errors.Wrap(err, "insert task")
	}

	t := doc.toTask()
	return &t, nil
}

func (r *MongoTaskRepository) GetTaskByID(ctx context.Context, id string) (*task.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, dberr.NotFound(database.TasksCollection)
	}

	var doc taskDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, errors.Wrapf(err, "find task %s", id)
	}

	t := doc.toTask()
	return &t, nil
}

func (r *MongoTaskRepository) UpdateTask(ctx context.Context, id string, update task.Update) (*task.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, dberr.NotFound(database.TasksCollection)
	}

	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Completed != nil {
		set["completed"] = *update.Completed
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc taskDocument
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		return nil, errors.Wrapf(err, "update task %s", id)
	}

	t := doc.toTask()
	return &t, nil
}

func (r *MongoTaskRepository) DeleteTask(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return dberr.NotFound(database.TasksCollection)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrapf(err, "delete task %s", id)
	}
	if res.DeletedCount == 0 {
		return dberr.NotFound(database.TasksCollection)
	}
	return nil
}
