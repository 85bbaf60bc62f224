package security

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sentinai-labs/server/internal/events"
)

type stubRepo struct {
	createFn func(params CreateParams) (*Finding, error)
	listFn   func(projectID uuid.UUID) ([]Finding, error)
}

func (s stubRepo) Create(_ context.Context, params CreateParams) (*Finding, error) {
	return s.createFn(params)
}

func (s stubRepo) ListByProject(_ context.Context, projectID uuid.UUID) ([]Finding, error) {
	return s.listFn(projectID)
}

func TestScanStoresFixedFindingSet(t *testing.T) {
	projectID := uuid.New()
	var stored []CreateParams
	repo := stubRepo{
		createFn: func(params CreateParams) (*Finding, error) {
			stored = append(stored, params)
			return &Finding{
				ID:          uuid.New(),
				ProjectID:   params.ProjectID,
				Severity:    params.Severity,
				Description: params.Description,
			}, nil
		},
	}

	svc := NewService(repo, events.NewBus(events.DefaultCapacity), zerolog.Nop())
	findings, err := svc.Scan(context.Background(), projectID)
	require.NoError(t, err)
	require.Len(t, findings, 2)

	require.Equal(t, "high", stored[0].Severity)
	require.Equal(t, "medium", stored[1].Severity)
	for _, params := range stored {
		require.Equal(t, projectID, params.ProjectID)
		require.NotEmpty(t, params.Description)
	}
}

func TestScanPublishesPerFinding(t *testing.T) {
	projectID := uuid.New()
	repo := stubRepo{
		createFn: func(params CreateParams) (*Finding, error) {
			return &Finding{
				ID:          uuid.New(),
				ProjectID:   params.ProjectID,
				Severity:    params.Severity,
				Description: params.Description,
			}, nil
		},
	}

	bus := events.NewBus(events.DefaultCapacity)
	defer bus.Close()
	sub := bus.Subscribe()
	defer sub.Close()

	svc := NewService(repo, bus, zerolog.Nop())
	findings, err := svc.Scan(context.Background(), projectID)
	require.NoError(t, err)

	for _, finding := range findings {
		select {
		case evt := <-sub.Events():
			created, ok := evt.(events.SecurityFindingCreated)
			require.True(t, ok, "unexpected event type %T", evt)
			require.Equal(t, projectID, created.ProjectID)
			require.Equal(t, finding.ID, created.FindingID)
			require.Equal(t, finding.Severity, created.Severity)
		case <-time.After(time.Second):
			t.Fatal("expected one event per stored finding")
		}
	}
}

func TestScanStoreErrorStops(t *testing.T) {
	storeErr := errors.New("disk full")
	calls := 0
	repo := stubRepo{
		createFn: func(CreateParams) (*Finding, error) {
			calls++
			return nil, storeErr
		},
	}

	svc := NewService(repo, events.NewBus(events.DefaultCapacity), zerolog.Nop())
	_, err := svc.Scan(context.Background(), uuid.New())
	require.ErrorIs(t, err, storeErr)
	require.Equal(t, 1, calls)
}

func TestListPropagatesStoreError(t *testing.T) {
	storeErr := errors.New("timeout")
	repo := stubRepo{
		listFn: func(uuid.UUID) ([]Finding, error) {
			return nil, storeErr
		},
	}

	svc := NewService(repo, events.NewBus(events.DefaultCapacity), zerolog.Nop())
	_, err := svc.List(context.Background(), uuid.New())
	require.ErrorIs(t, err, storeErr)
}
