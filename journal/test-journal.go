package journal

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// DynamoTestJournal starts DynamoDB Local in a container and returns a journal
// backed by it, together with a teardown function.
func DynamoTestJournal(ctx context.Context) (*DynamoJournal, func(), error) {
	db, err := testcontainers.GenericContainer(
		ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "amazon/dynamodb-local",
				ExposedPorts: []string{"8000/tcp"},
				WaitingFor:   wait.ForListeningPort("8000"),
			},
			Started: true,
		},
	)
	if err != nil {
		return nil, nil, err
	}

	teardown := func() {
		if err := db.Terminate(ctx); err != nil {
			panic(err)
		}
	}

	host, err := db.Host(ctx)
	if err != nil {
		teardown()
		return nil, nil, err
	}

	port, err := db.MappedPort(ctx, "8000")
	if err != nil {
		teardown()
		return nil, nil, err
	}

	journal, err := LocalDynamoJournal(ctx, Config{
		Endpoint: fmt.Sprintf("http://%s:%s", host, port.Port()),
		Table:    "test-journal",
	})
	if err != nil {
		teardown()
		return nil, nil, err
	}

	return journal, teardown, nil
}
