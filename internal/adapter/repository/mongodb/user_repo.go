package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/andrew-widjaja/yelp-camp/internal/campground/domain"
	"github.com/andrew-widjaja/yelp-camp/internal/platform/logger"
)

const userCollectionName = "users"

// UserRepository implements domain.UserRepository using MongoDB.
type UserRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewUserRepository creates the repository and ensures the unique indexes
// on email and username.
func NewUserRepository(db *mongo.Database, log *logger.Logger) (*UserRepository, error) {
	collection := db.Collection(userCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for users collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for users collection")
	}

	return &UserRepository{
		collection: collection,
		logger:     log.Named("UserRepository"),
	}, nil
}

// Create inserts a new user. Duplicate email or username surfaces as
// domain.ErrUserAlreadyExists via the unique indexes.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	doc, err := fromDomainUser(u)
	if err != nil {
		r.logger.Error("Failed to convert user for Create", zap.Error(err))
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}

	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserAlreadyExists
		}
		r.logger.Error("Failed to insert user", zap.Error(err))
		return fmt.Errorf("%w: user insert failed: %v", domain.ErrRepository, err)
	}

	u.ID = doc.ID.Hex()
	u.CreatedAt = doc.CreatedAt
	u.UpdatedAt = doc.UpdatedAt
	r.logger.Info("User created", zap.String("user_id", u.ID), zap.String("username", u.Username))
	return nil
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectIDFromHex("user", id)
	if err != nil {
		return nil, err
	}

	var doc userDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to find user", zap.Error(err), zap.String("user_id", id))
		return nil, fmt.Errorf("%w: user findone failed: %v", domain.ErrRepository, err)
	}
	return doc.toDomain(), nil
}

// GetByLogin retrieves a user by email or username.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"email": login},
		bson.M{"username": login},
	}}

	var doc userDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to find user by login", zap.Error(err))
		return nil, fmt.Errorf("%w: user findone failed: %v", domain.ErrRepository, err)
	}
	return doc.toDomain(), nil
}

// GetByIDs resolves a set of users keyed by id, for display.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	if len(ids) == 0 {
		return map[string]*domain.User{}, nil
	}

	oids, err := objectIDsFromHex("user", ids)
	if err != nil {
		return nil, err
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		r.logger.Error("Failed to find users by ids", zap.Error(err))
		return nil, fmt.Errorf("%w: user find failed: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var docs []*userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode users", zap.Error(err))
		return nil, fmt.Errorf("%w: user cursor all failed: %v", domain.ErrRepository, err)
	}

	users := make(map[string]*domain.User, len(docs))
	for _, doc := range docs {
		u := doc.toDomain()
		users[u.ID] = u
	}
	return users, nil
}
