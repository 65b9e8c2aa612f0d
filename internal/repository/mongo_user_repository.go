package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"userauth/internal/model"
)

// UsersCollection is the collection holding user documents.
const UsersCollection = "users"

var withoutPassword = bson.D{{Key: "password", Value: 0}}

type mongoUserRepository struct {
	col *mongo.Collection
	now func() time.Time
}

// NewMongoUserRepository builds a MongoDB-backed repository and makes sure the
// unique email index exists.
func NewMongoUserRepository(ctx context.Context, database *mongo.Database) (UserRepository, error) {
	r := &mongoUserRepository{
		col: database.Collection(UsersCollection),
		now: time.Now,
	}
	if err := r.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *mongoUserRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create unique email index: %w", err)
	}
	return nil
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	if err := user.Prepare(); err != nil {
		return err
	}
	now := r.now().UTC().Truncate(time.Millisecond)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, user); err != nil {
		return wrapMongoError(err)
	}
	return nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}}, false)
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string, includePassword bool) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}}, includePassword)
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.D, includePassword bool) (*model.User, error) {
	opts := options.FindOne()
	if !includePassword {
		opts.SetProjection(withoutPassword)
	}

	var user model.User
	if err := r.col.FindOne(ctx, filter, opts).Decode(&user); err != nil {
		return nil, wrapMongoError(err)
	}
	return &user, nil
}

func wrapMongoError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}
