package tcpostgres

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const defaultImage = "postgres:16-alpine"

// PostgresContainer is a reusable postgres container for database tests
type PostgresContainer struct {
	testcontainers.Container
	user     string
	password string
	dbName   string
}

type containerSettings struct {
	req      testcontainers.ContainerRequest
	user     string
	password string
	dbName   string
}

type PostgresContainerOption func(s *containerSettings)

func WithImage(image string) PostgresContainerOption {
	return func(s *containerSettings) {
		s.req.Image = image
	}
}

func WithWaitStrategy(strategies ...wait.Strategy) PostgresContainerOption {
	return func(s *containerSettings) {
		s.req.WaitingFor = wait.ForAll(strategies...).WithDeadline(1 * time.Minute)
	}
}

func WithPort(port nat.Port) PostgresContainerOption {
	return func(s *containerSettings) {
		s.req.ExposedPorts = append(s.req.ExposedPorts, string(port))
	}
}

func WithName(containerName string) PostgresContainerOption {
	return func(s *containerSettings) {
		s.req.Name = containerName
	}
}

func WithInitialDatabase(user, password, dbName string) PostgresContainerOption {
	return func(s *containerSettings) {
		s.user, s.password, s.dbName = user, password, dbName
	}
}

// SetupPostgres starts (or reuses) a postgres container. Durability settings
// are turned off, the data is thrown away anyway.
func SetupPostgres(ctx context.Context, opts ...PostgresContainerOption) (
	*PostgresContainer, error,
) {
	s := &containerSettings{
		req: testcontainers.ContainerRequest{
			Image:        defaultImage,
			Env:          map[string]string{},
			ExposedPorts: []string{},
			Cmd: []string{
				"postgres",
				"-c", "fsync=off",
				"-c", "synchronous_commit=off",
				"-c", "full_page_writes=off",
			},
		},
		user:     "postgres",
		password: "password",
		dbName:   "postgres",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.req.Env["POSTGRES_USER"] = s.user
	s.req.Env["POSTGRES_PASSWORD"] = s.password
	s.req.Env["POSTGRES_DB"] = s.dbName

	container, err := testcontainers.GenericContainer(
		ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: s.req,
			Started:          true,
			Reuse:            s.req.Name != "",
		})
	if err != nil {
		return nil, err
	}
	return &PostgresContainer{
		Container: container,
		user:      s.user,
		password:  s.password,
		dbName:    s.dbName,
	}, nil
}

// ConnectionString returns the url to reach the database via the mapped port
func (c *PostgresContainer) ConnectionString(ctx context.Context, port nat.Port) (string, error) {
	mapped, err := c.MappedPort(ctx, port)
	if err != nil {
		return "", err
	}
	host, err := c.Host(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		c.user, c.password, host, mapped.Port(), c.dbName), nil
}
