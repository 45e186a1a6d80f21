package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	mongoRepo "github.com/andrew-widjaja/yelp-camp/internal/adapter/repository/mongodb"
	"github.com/andrew-widjaja/yelp-camp/internal/campground/domain"
	"github.com/andrew-widjaja/yelp-camp/internal/campground/usecase"
	"github.com/andrew-widjaja/yelp-camp/internal/config"
	"github.com/andrew-widjaja/yelp-camp/internal/platform/logger"
)

// seed populates the database with a demo user and a batch of randomly
// composed campgrounds. It wipes the campgrounds and reviews collections
// first, so it is strictly a development tool.

const campgroundCount = 50

type city struct {
	Name      string
	State     string
	Longitude float64
	Latitude  float64
}

var cities = []city{
	{"New York", "New York", -73.9866, 40.7306},
	{"Los Angeles", "California", -118.4068, 34.0194},
	{"Chicago", "Illinois", -87.6818, 41.8376},
	{"Houston", "Texas", -95.3909, 29.7805},
	{"Phoenix", "Arizona", -112.088, 33.5722},
	{"Philadelphia", "Pennsylvania", -75.1333, 40.0094},
	{"San Antonio", "Texas", -98.5251, 29.4724},
	{"San Diego", "California", -117.135, 32.8153},
	{"Dallas", "Texas", -96.7665, 32.7933},
	{"Austin", "Texas", -97.7587, 30.3039},
	{"Seattle", "Washington", -122.3509, 47.6205},
	{"Denver", "Colorado", -104.8806, 39.7618},
	{"Portland", "Oregon", -122.6587, 45.537},
	{"Nashville", "Tennessee", -86.785, 36.1718},
	{"Boston", "Massachusetts", -71.0202, 42.332},
	{"Asheville", "North Carolina", -82.5515, 35.5951},
	{"Bozeman", "Montana", -111.0429, 45.6793},
	{"Flagstaff", "Arizona", -111.6513, 35.1983},
	{"Bend", "Oregon", -121.3153, 44.0582},
	{"Moab", "Utah", -109.5498, 38.5733},
}

var descriptors = []string{
	"Forest", "Ancient", "Petrified", "Roaring", "Cascade", "Tumbling",
	"Silent", "Redwood", "Bullfrog", "Maple", "Misty", "Elk", "Grizzly",
	"Ocean", "Sky", "Dusty", "Diamond",
}

var places = []string{
	"Flats", "Village", "Canyon", "Pond", "Group Camp", "Horse Camp",
	"Ghost Town", "Camp", "Dispersed Camp", "Backcountry", "River",
	"Creek", "Creekside", "Bay", "Spring", "Bayshore", "Sands",
	"Mule Camp", "Hunting Camp", "Cliffs", "Hollow",
}

const seedDescription = "Lorem ipsum dolor sit amet consectetur adipisicing elit. " +
	"Quibusdam dolores vero perferendis laudantium, consequuntur voluptatibus " +
	"nulla architecto, sit soluta esse iure sed labore ipsam a cum nihil atque " +
	"molestiae, deleniti reprehenderit."

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	appLogger := logger.NewLogger()
	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())
	if err := mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	db := mongoClient.Database(cfg.MongoDatabase)

	for _, name := range []string{"campgrounds", "reviews"} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			appLogger.Fatal("Failed to drop collection", zap.String("collection", name), zap.Error(err))
		}
	}
	appLogger.Info("Dropped campgrounds and reviews collections.")

	userRepo, err := mongoRepo.NewUserRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize UserRepository", zap.Error(err))
	}
	campgroundRepo, err := mongoRepo.NewCampgroundRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize CampgroundRepository", zap.Error(err))
	}

	userUsecase := usecase.NewUserUsecase(userRepo, nil, nil, appLogger)
	author, err := userUsecase.Register(ctx, "camper", "camper@yelpcamp.example", "password")
	if err != nil {
		// The demo user survives reruns; reuse it.
		author, err = userRepo.GetByLogin(ctx, "camper")
		if err != nil {
			appLogger.Fatal("Failed to create or look up seed user", zap.Error(err))
		}
	}
	appLogger.Info("Seed user ready", zap.String("user_id", author.ID))

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; i < campgroundCount; i++ {
		c := cities[rng.Intn(len(cities))]
		title := fmt.Sprintf("%s %s", descriptors[rng.Intn(len(descriptors))], places[rng.Intn(len(places))])

		campground := &domain.Campground{
			Title:       title,
			Description: seedDescription,
			Price:       float64(rng.Intn(21) + 10),
			Location:    fmt.Sprintf("%s, %s", c.Name, c.State),
			Geometry: domain.GeoPoint{
				Type:        "Point",
				Coordinates: []float64{c.Longitude, c.Latitude},
			},
			Images: []domain.Image{
				{URL: fmt.Sprintf("https://picsum.photos/seed/%s-%d/800/600", c.Name, i)},
			},
			AuthorID:  author.ID,
			ReviewIDs: []string{},
		}
		if err := campgroundRepo.Create(ctx, campground); err != nil {
			appLogger.Fatal("Failed to insert seed campground", zap.Error(err))
		}
	}

	appLogger.Info("Seeding complete", zap.Int("campgrounds", campgroundCount))
}
