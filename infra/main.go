package infra

import (
	"github.com/propertyhub/propertyhub/config"
	"github.com/propertyhub/propertyhub/infra/produce"
)

type Infra struct {
	Redis      *RedisClient
	Postgres   *PostgresClient
	Logger     *LoggerClient
	RabbitMQ   *RabbitMQClient
	Minio      *MinioClient
	ImageStore *ImageStore
	Produce    *produce.Produce
}

var infraInstance *Infra

func InitInfra(cfg *config.Config) *Infra {
	if infraInstance != nil {
		return infraInstance
	}

	redis := InitRedisClient(cfg.EnvConfig)
	if redis == nil {
		panic("Failed to initialize Redis service")
	}

	postgres := InitPostgresClient(cfg.EnvConfig)
	if postgres == nil {
		panic("Failed to initialize Postgres service")
	}

	logger := InitLoggerClient(cfg.EnvConfig)
	if logger == nil {
		panic("Failed to initialize Logger service")
	}

	rabbitMQ := InitRabbitMQClient(cfg.EnvConfig)
	if rabbitMQ == nil {
		panic("Failed to initialize RabbitMQ service")
	}

	minio := InitMinioClient(cfg.EnvConfig)
	if minio == nil {
		panic("Failed to initialize MinIO service")
	}

	imageStore := InitImageStore(minio, cfg.EnvConfig)
	if imageStore == nil {
		panic("Failed to initialize Image Store service")
	}

	produceService := produce.InitProduce(rabbitMQ.Channel)
	if produceService == nil {
		panic("Failed to initialize Produce service")
	}

	infraInstance = &Infra{
		Redis:      redis,
		Postgres:   postgres,
		Logger:     logger,
		RabbitMQ:   rabbitMQ,
		Minio:      minio,
		ImageStore: imageStore,
		Produce:    produceService,
	}

	return infraInstance
}
