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

const (
	campgroundCollectionName = "campgrounds"
	reviewCollectionName     = "reviews"
)

// CampgroundRepository implements domain.CampgroundRepository using MongoDB.
type CampgroundRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewCampgroundRepository creates the repository and ensures its indexes.
func NewCampgroundRepository(db *mongo.Database, log *logger.Logger) (*CampgroundRepository, error) {
	collection := db.Collection(campgroundCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "author", Value: 1}}},
		{Keys: bson.D{{Key: "geometry", Value: "2dsphere"}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for campgrounds collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for campgrounds collection")
	}

	return &CampgroundRepository{
		db:         db,
		collection: collection,
		logger:     log.Named("CampgroundRepository"),
	}, nil
}

// Create inserts a new campground. The author reference is written exactly
// once here and never touched by Update.
func (r *CampgroundRepository) Create(ctx context.Context, c *domain.Campground) error {
	doc, err := fromDomainCampground(c)
	if err != nil {
		r.logger.Error("Failed to convert campground for Create", zap.Error(err))
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if doc.Reviews == nil {
		doc.Reviews = []primitive.ObjectID{}
	}
	if doc.Images == nil {
		doc.Images = []imageDocument{}
	}

	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert campground", zap.Error(err))
		return fmt.Errorf("%w: campground insert failed: %v", domain.ErrRepository, err)
	}

	c.ID = doc.ID.Hex()
	c.CreatedAt = doc.CreatedAt
	c.UpdatedAt = doc.UpdatedAt
	r.logger.Info("Campground created", zap.String("campground_id", c.ID))
	return nil
}

// FindByID fetches a single campground.
func (r *CampgroundRepository) FindByID(ctx context.Context, id string) (*domain.Campground, error) {
	oid, err := objectIDFromHex("campground", id)
	if err != nil {
		return nil, err
	}

	var doc campgroundDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to find campground", zap.Error(err), zap.String("campground_id", id))
		return nil, fmt.Errorf("%w: campground findone failed: %v", domain.ErrRepository, err)
	}
	return doc.toDomain(), nil
}

// FindAll returns every campground, newest first.
func (r *CampgroundRepository) FindAll(ctx context.Context) ([]*domain.Campground, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		r.logger.Error("Failed to list campgrounds", zap.Error(err))
		return nil, fmt.Errorf("%w: campground find failed: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var docs []*campgroundDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode campgrounds", zap.Error(err))
		return nil, fmt.Errorf("%w: campground cursor all failed: %v", domain.ErrRepository, err)
	}

	campgrounds := make([]*domain.Campground, 0, len(docs))
	for _, doc := range docs {
		campgrounds = append(campgrounds, doc.toDomain())
	}
	return campgrounds, nil
}

// Update writes the campground's mutable fields. Geometry, author and the
// review set are deliberately excluded from the $set payload.
func (r *CampgroundRepository) Update(ctx context.Context, c *domain.Campground) error {
	doc, err := fromDomainCampground(c)
	if err != nil {
		r.logger.Error("Failed to convert campground for Update", zap.Error(err))
		return err
	}
	if doc.ID.IsZero() {
		return errors.New("cannot update campground without id")
	}

	doc.UpdatedAt = time.Now().UTC()
	c.UpdatedAt = doc.UpdatedAt

	update := bson.M{
		"$set": bson.M{
			"title":       doc.Title,
			"description": doc.Description,
			"price":       doc.Price,
			"location":    doc.Location,
			"images":      doc.Images,
			"updated_at":  doc.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		r.logger.Error("Failed to update campground", zap.Error(err), zap.String("campground_id", c.ID))
		return fmt.Errorf("%w: campground update failed: %v", domain.ErrRepository, err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	r.logger.Info("Campground updated", zap.String("campground_id", c.ID))
	return nil
}

// DeleteWithReviews removes the campground and every review in its review
// set inside one transaction. Either both deletes commit or neither does,
// so a review can never outlive its parent.
func (r *CampgroundRepository) DeleteWithReviews(ctx context.Context, id string) error {
	oid, err := objectIDFromHex("campground", id)
	if err != nil {
		return err
	}

	session, err := r.db.Client().StartSession()
	if err != nil {
		r.logger.Error("Failed to start session for cascade delete", zap.Error(err))
		return fmt.Errorf("%w: start session failed: %v", domain.ErrRepository, err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var doc campgroundDocument
		if err := r.collection.FindOneAndDelete(sc, bson.M{"_id": oid}).Decode(&doc); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, domain.ErrNotFound
			}
			return nil, fmt.Errorf("campground delete failed: %w", err)
		}

		if len(doc.Reviews) > 0 {
			result, err := r.db.Collection(reviewCollectionName).DeleteMany(sc, bson.M{
				"_id": bson.M{"$in": doc.Reviews},
			})
			if err != nil {
				return nil, fmt.Errorf("review cascade failed: %w", err)
			}
			r.logger.Info("Cascaded review delete",
				zap.String("campground_id", id),
				zap.Int("review_set_size", len(doc.Reviews)),
				zap.Int64("reviews_deleted", result.DeletedCount))
		}
		return &doc, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		r.logger.Error("Cascade delete transaction failed", zap.Error(err), zap.String("campground_id", id))
		return fmt.Errorf("%w: cascade delete of campground %s: %v", domain.ErrIntegrity, id, err)
	}

	r.logger.Info("Campground deleted with its reviews", zap.String("campground_id", id))
	return nil
}
