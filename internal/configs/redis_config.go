package configs

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rafaelmaranon/Availo/common/env"
	"github.com/rafaelmaranon/Availo/common/logger"
	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func GetRedisConfig() *RedisConfig {
	db, err := strconv.Atoi(env.Get("REDIS_DB", "0"))
	if err != nil {
		db = 0
	}

	return &RedisConfig{
		Host:     env.Get("REDIS_HOST", "redis"),
		Port:     env.Get("REDIS_PORT", "6379"),
		Password: env.Get("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func ConnectRedis() (*redis.Client, error) {
	config := GetRedisConfig()

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Successfully connected to Redis",
		"host", config.Host,
		"port", config.Port)
	return client, nil
}
