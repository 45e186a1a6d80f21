package mongodb

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/andrew-widjaja/yelp-camp/internal/campground/domain"
	"github.com/andrew-widjaja/yelp-camp/internal/platform/logger"
)

var (
	testDB        *mongo.Database
	dockerMissing bool
)

// TestMain starts a single-node MongoDB replica set: the repositories use
// multi-document transactions, which a standalone mongod does not support.
func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		log.Printf("Docker not available, skipping MongoDB integration tests: %v", err)
		dockerMissing = true
		os.Exit(m.Run())
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "5.0",
		Cmd:        []string{"--replSet", "rs0", "--bind_ip_all"},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start MongoDB resource: %s", err)
	}

	uri := fmt.Sprintf("mongodb://%s/?directConnection=true", resource.GetHostPort("27017/tcp"))

	var client *mongo.Client
	if err := pool.Retry(func() error {
		var errRetry error
		client, errRetry = mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
		if errRetry != nil {
			return errRetry
		}
		return client.Ping(context.Background(), nil)
	}); err != nil {
		log.Fatalf("Could not connect to MongoDB: %s", err)
	}

	initCmd := bson.D{
		{Key: "replSetInitiate", Value: bson.M{
			"_id":     "rs0",
			"members": []bson.M{{"_id": 0, "host": "localhost:27017"}},
		}},
	}
	if err := client.Database("admin").RunCommand(context.Background(), initCmd).Err(); err != nil {
		log.Fatalf("Could not initiate replica set: %s", err)
	}

	// Wait until the node elects itself primary and accepts writes.
	if err := pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, errProbe := client.Database("probe").Collection("probe").InsertOne(ctx, bson.M{"ok": true})
		return errProbe
	}); err != nil {
		log.Fatalf("Replica set never became ready: %s", err)
	}

	testDB = client.Database("yelp_camp_test")

	code := m.Run()

	_ = client.Disconnect(context.Background())
	_ = pool.Purge(resource)
	os.Exit(code)
}

func requireDocker(t *testing.T) {
	t.Helper()
	if dockerMissing {
		t.Skip("Docker not available")
	}
}

func newRepos(t *testing.T) (*CampgroundRepository, *ReviewRepository, *UserRepository) {
	t.Helper()
	log := logger.NewLogger()
	campgrounds, err := NewCampgroundRepository(testDB, log)
	require.NoError(t, err)
	reviews, err := NewReviewRepository(testDB, log)
	require.NoError(t, err)
	users, err := NewUserRepository(testDB, log)
	require.NoError(t, err)
	return campgrounds, reviews, users
}

func seedCampground(t *testing.T, repo *CampgroundRepository, authorID string) *domain.Campground {
	t.Helper()
	c := &domain.Campground{
		Title:       "Misty Canyon",
		Description: "A quiet spot by the river.",
		Price:       25,
		Location:    "Bend, Oregon",
		Geometry:    domain.GeoPoint{Type: "Point", Coordinates: []float64{-121.3153, 44.0582}},
		Images:      []domain.Image{{URL: "http://blobs/a.png", Filename: "campgrounds/a.png"}},
		AuthorID:    authorID,
		ReviewIDs:   []string{},
	}
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func TestCampgroundRepository_CreateAndFind(t *testing.T) {
	requireDocker(t)
	campgrounds, _, _ := newRepos(t)
	ctx := context.Background()

	created := seedCampground(t, campgrounds, "64b000000000000000000001")
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := campgrounds.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, found.Title)
	assert.Equal(t, created.Geometry, found.Geometry)
	assert.Equal(t, created.AuthorID, found.AuthorID)
	assert.Empty(t, found.ReviewIDs)

	_, err = campgrounds.FindByID(ctx, "64b0000000000000000000ff")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = campgrounds.FindByID(ctx, "not-a-hex-id")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCampgroundRepository_UpdateKeepsGeometryAndAuthor(t *testing.T) {
	requireDocker(t)
	campgrounds, _, _ := newRepos(t)
	ctx := context.Background()

	created := seedCampground(t, campgrounds, "64b000000000000000000001")
	originalGeometry := created.Geometry

	created.Title = "Renamed"
	created.Location = "Moab, Utah"
	created.Geometry = domain.GeoPoint{Type: "Point", Coordinates: []float64{0, 0}}
	created.AuthorID = "64b0000000000000000000aa"
	require.NoError(t, campgrounds.Update(ctx, created))

	found, err := campgrounds.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", found.Title)
	assert.Equal(t, "Moab, Utah", found.Location)
	assert.Equal(t, originalGeometry, found.Geometry, "geometry must never change after creation")
	assert.Equal(t, "64b000000000000000000001", found.AuthorID, "ownership must never change")
}

func TestReviewRepository_AttachAndDetach(t *testing.T) {
	requireDocker(t)
	campgrounds, reviews, _ := newRepos(t)
	ctx := context.Background()

	c := seedCampground(t, campgrounds, "64b000000000000000000001")

	r := &domain.Review{Rating: 4, Body: "Lovely views.", AuthorID: "64b000000000000000000002"}
	require.NoError(t, reviews.CreateForCampground(ctx, c.ID, r))
	require.NotEmpty(t, r.ID)
	assert.Equal(t, c.ID, r.CampgroundID)

	found, err := campgrounds.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{r.ID}, found.ReviewIDs)

	fetched, err := reviews.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Body, fetched.Body)

	require.NoError(t, reviews.DeleteForCampground(ctx, c.ID, r.ID))

	found, err = campgrounds.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, found.ReviewIDs)

	_, err = reviews.GetByID(ctx, r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReviewRepository_CreateForMissingCampground(t *testing.T) {
	requireDocker(t)
	_, reviews, _ := newRepos(t)
	ctx := context.Background()

	before, err := testDB.Collection(reviewCollectionName).CountDocuments(ctx, bson.M{})
	require.NoError(t, err)

	r := &domain.Review{Rating: 4, Body: "Orphan.", AuthorID: "64b000000000000000000002"}
	err = reviews.CreateForCampground(ctx, "64b0000000000000000000ff", r)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	after, err := testDB.Collection(reviewCollectionName).CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	assert.Equal(t, before, after, "no review document may exist without its campground")
}

func TestCampgroundRepository_DeleteCascadesReviews(t *testing.T) {
	requireDocker(t)
	campgrounds, reviews, _ := newRepos(t)
	ctx := context.Background()

	c := seedCampground(t, campgrounds, "64b000000000000000000001")
	var reviewIDs []string
	for i := 0; i < 3; i++ {
		r := &domain.Review{Rating: int32(i + 1), Body: "Review body.", AuthorID: "64b000000000000000000002"}
		require.NoError(t, reviews.CreateForCampground(ctx, c.ID, r))
		reviewIDs = append(reviewIDs, r.ID)
	}

	require.NoError(t, campgrounds.DeleteWithReviews(ctx, c.ID))

	_, err := campgrounds.FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for _, id := range reviewIDs {
		_, err := reviews.GetByID(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound, "cascade must leave no orphan reviews")
	}

	assert.ErrorIs(t, campgrounds.DeleteWithReviews(ctx, c.ID), domain.ErrNotFound)
}

func TestUserRepository_Lifecycle(t *testing.T) {
	requireDocker(t)
	_, _, users := newRepos(t)
	ctx := context.Background()

	u := &domain.User{Username: "ana", Email: "ana@example.com", Password: "hashed"}
	require.NoError(t, users.Create(ctx, u))
	require.NotEmpty(t, u.ID)

	dupEmail := &domain.User{Username: "other", Email: "ana@example.com", Password: "hashed"}
	assert.ErrorIs(t, users.Create(ctx, dupEmail), domain.ErrUserAlreadyExists)

	dupUsername := &domain.User{Username: "ana", Email: "other@example.com", Password: "hashed"}
	assert.ErrorIs(t, users.Create(ctx, dupUsername), domain.ErrUserAlreadyExists)

	byEmail, err := users.GetByLogin(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byUsername, err := users.GetByLogin(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byUsername.ID)

	_, err = users.GetByLogin(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	byIDs, err := users.GetByIDs(ctx, []string{u.ID, "64b0000000000000000000ff"})
	require.NoError(t, err)
	require.Contains(t, byIDs, u.ID)
	assert.Equal(t, "ana", byIDs[u.ID].Username)
	assert.NotContains(t, byIDs, "64b0000000000000000000ff")
}
