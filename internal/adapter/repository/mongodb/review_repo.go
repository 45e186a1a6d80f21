package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/andrew-widjaja/yelp-camp/internal/campground/domain"
	"github.com/andrew-widjaja/yelp-camp/internal/platform/logger"
)

// ReviewRepository implements domain.ReviewRepository using MongoDB.
type ReviewRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewReviewRepository creates the repository and ensures its indexes.
func NewReviewRepository(db *mongo.Database, log *logger.Logger) (*ReviewRepository, error) {
	collection := db.Collection(reviewCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "author", Value: 1}}},
		{Keys: bson.D{{Key: "campground_id", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for reviews collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for reviews collection")
	}

	return &ReviewRepository{
		db:         db,
		collection: collection,
		logger:     log.Named("ReviewRepository"),
	}, nil
}

// CreateForCampground inserts the review and appends its id to the parent
// campground's review set within one transaction. The append and the
// insert commit together or not at all.
func (r *ReviewRepository) CreateForCampground(ctx context.Context, campgroundID string, review *domain.Review) error {
	campOID, err := objectIDFromHex("campground", campgroundID)
	if err != nil {
		return err
	}

	doc, err := fromDomainReview(review)
	if err != nil {
		r.logger.Error("Failed to convert review for Create", zap.Error(err))
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	doc.CampgroundID = campOID

	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	session, err := r.db.Client().StartSession()
	if err != nil {
		r.logger.Error("Failed to start session for review create", zap.Error(err))
		return fmt.Errorf("%w: start session failed: %v", domain.ErrRepository, err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		result, err := r.db.Collection(campgroundCollectionName).UpdateOne(sc,
			bson.M{"_id": campOID},
			bson.M{"$push": bson.M{"reviews": doc.ID}},
		)
		if err != nil {
			return nil, fmt.Errorf("review set append failed: %w", err)
		}
		if result.MatchedCount == 0 {
			return nil, domain.ErrNotFound
		}

		if _, err := r.collection.InsertOne(sc, doc); err != nil {
			return nil, fmt.Errorf("review insert failed: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		r.logger.Error("Review create transaction failed", zap.Error(err), zap.String("campground_id", campgroundID))
		return fmt.Errorf("%w: review create for campground %s: %v", domain.ErrIntegrity, campgroundID, err)
	}

	review.ID = doc.ID.Hex()
	review.CampgroundID = campgroundID
	review.CreatedAt = doc.CreatedAt
	review.UpdatedAt = doc.UpdatedAt
	r.logger.Info("Review created", zap.String("review_id", review.ID), zap.String("campground_id", campgroundID))
	return nil
}

// GetByID retrieves a review by its id.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	oid, err := objectIDFromHex("review", id)
	if err != nil {
		return nil, err
	}

	var doc reviewDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to find review", zap.Error(err), zap.String("review_id", id))
		return nil, fmt.Errorf("%w: review findone failed: %v", domain.ErrRepository, err)
	}
	return doc.toDomain(), nil
}

// FindByIDs resolves reviews for display, preserving the order of ids as
// stored in the campground's review set.
func (r *ReviewRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Review, error) {
	if len(ids) == 0 {
		return []*domain.Review{}, nil
	}

	oids, err := objectIDsFromHex("review", ids)
	if err != nil {
		return nil, err
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		r.logger.Error("Failed to find reviews by ids", zap.Error(err))
		return nil, fmt.Errorf("%w: review find failed: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var docs []*reviewDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode reviews", zap.Error(err))
		return nil, fmt.Errorf("%w: review cursor all failed: %v", domain.ErrRepository, err)
	}

	byID := make(map[string]*domain.Review, len(docs))
	for _, doc := range docs {
		review := doc.toDomain()
		byID[review.ID] = review
	}

	// Preserve the insertion order of the review set.
	reviews := make([]*domain.Review, 0, len(ids))
	for _, id := range ids {
		if review, ok := byID[id]; ok {
			reviews = append(reviews, review)
		}
	}
	return reviews, nil
}

// DeleteForCampground removes the review id from the parent's review set
// and deletes the review document within one transaction. Partial
// completion aborts and surfaces as an integrity error.
func (r *ReviewRepository) DeleteForCampground(ctx context.Context, campgroundID, reviewID string) error {
	campOID, err := objectIDFromHex("campground", campgroundID)
	if err != nil {
		return err
	}
	reviewOID, err := objectIDFromHex("review", reviewID)
	if err != nil {
		return err
	}

	session, err := r.db.Client().StartSession()
	if err != nil {
		r.logger.Error("Failed to start session for review delete", zap.Error(err))
		return fmt.Errorf("%w: start session failed: %v", domain.ErrRepository, err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.db.Collection(campgroundCollectionName).UpdateOne(sc,
			bson.M{"_id": campOID},
			bson.M{"$pull": bson.M{"reviews": reviewOID}},
		); err != nil {
			return nil, fmt.Errorf("review set pull failed: %w", err)
		}

		result, err := r.collection.DeleteOne(sc, bson.M{"_id": reviewOID})
		if err != nil {
			return nil, fmt.Errorf("review delete failed: %w", err)
		}
		if result.DeletedCount == 0 {
			return nil, domain.ErrNotFound
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		r.logger.Error("Review delete transaction failed",
			zap.Error(err),
			zap.String("campground_id", campgroundID),
			zap.String("review_id", reviewID))
		return fmt.Errorf("%w: review delete %s for campground %s: %v", domain.ErrIntegrity, reviewID, campgroundID, err)
	}

	r.logger.Info("Review deleted", zap.String("review_id", reviewID), zap.String("campground_id", campgroundID))
	return nil
}
