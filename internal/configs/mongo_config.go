package configs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rafaelmaranon/Availo/common/env"
	"github.com/rafaelmaranon/Availo/common/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoConfig struct {
	Host       string
	Port       string
	Database   string
	Username   string
	Password   string
	AuthSource string
}

func GetMongoConfig() *MongoConfig {
	return &MongoConfig{
		Host:       env.Get("MONGO_HOST", "mongo"),
		Port:       env.Get("MONGO_PORT", "27017"),
		Database:   env.Get("MONGO_DATABASE", "availo"),
		Username:   env.Get("MONGO_USERNAME", ""),
		Password:   env.Get("MONGO_PASSWORD", ""),
		AuthSource: env.Get("MONGO_AUTH_SOURCE", "admin"),
	}
}

func getMongoConnectionString() string {
	if uri := os.Getenv("MONGO_CONNECTION_STRING"); uri != "" {
		return uri
	}
	return os.Getenv("MONGO_URL")
}

// ConnectMongo connects using MONGO_CONNECTION_STRING/MONGO_URL when present,
// otherwise builds the URI from split env vars.
func ConnectMongo() (*mongo.Client, error) {
	uri := getMongoConnectionString()
	if uri == "" {
		config := GetMongoConfig()
		if config.Username != "" && config.Password != "" {
			uri = fmt.Sprintf("mongodb://%s:%s@%s:%s/%s",
				config.Username, config.Password, config.Host, config.Port, config.Database)
			if authSource := strings.TrimSpace(config.AuthSource); authSource != "" {
				uri = fmt.Sprintf("%s?authSource=%s", uri, url.QueryEscape(authSource))
			}
		} else {
			uri = fmt.Sprintf("mongodb://%s:%s/%s",
				config.Host, config.Port, config.Database)
		}
	}

	clientOptions := options.Client().ApplyURI(uri)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info("Successfully connected to MongoDB")
	return client, nil
}

func CloseMongo(client *mongo.Client) error {
	if client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return client.Disconnect(ctx)
	}
	return nil
}
