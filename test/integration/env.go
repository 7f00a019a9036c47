package integration

import (
	"context"
	"fmt"

	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// StartPostgres runs a disposable postgres container and returns its
// connection string plus a terminate func.
func StartPostgres(ctx context.Context) (string, func(), error) {
	pgC, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("checkout"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		return "", nil, fmt.Errorf("start postgres container: %w", err)
	}
	terminate := func() { _ = pgC.Terminate(context.Background()) }

	url, err := pgC.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		terminate()
		return "", nil, fmt.Errorf("postgres connection string: %w", err)
	}
	return url, terminate, nil
}

// StartKafka runs a disposable kafka container and returns its broker
// addresses plus a terminate func.
func StartKafka(ctx context.Context) ([]string, func(), error) {
	kafkaC, err := tckafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("checkout-test"),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("start kafka container: %w", err)
	}
	terminate := func() { _ = kafkaC.Terminate(context.Background()) }

	brokers, err := kafkaC.Brokers(ctx)
	if err != nil {
		terminate()
		return nil, nil, fmt.Errorf("kafka brokers: %w", err)
	}
	return brokers, terminate, nil
}
