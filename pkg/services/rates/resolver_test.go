package rates

import (
	"context"
	"testing"

	"github.com/de-tools/invoice-atlas/pkg/models/domain"
	storemodels "github.com/de-tools/invoice-atlas/pkg/models/store"
	ratestore "github.com/de-tools/invoice-atlas/pkg/store/duckdb/rates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, classification, location string) (storemodels.RateRecord, error) {
	args := m.Called(ctx, classification, location)
	return args.Get(0).(storemodels.RateRecord), args.Error(1)
}

func (m *MockStore) Seed(ctx context.Context, records []storemodels.RateRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func TestCachedResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("location specific hit", func(t *testing.T) {
		store := new(MockStore)
		store.On("Get", ctx, "RS", "houston").
			Return(storemodels.RateRecord{Classification: "RS", Location: "houston", HourlyRate: 75.0, OvertimeThreshold: 40.0}, nil).
			Once()

		resolver := NewCachedResolver(store)
		std, err := resolver.Resolve(ctx, domain.ClassificationRS, "houston")
		require.NoError(t, err)
		assert.Equal(t, 75.0, std.HourlyRate)
		store.AssertExpectations(t)
	})

	t.Run("falls back to default location", func(t *testing.T) {
		store := new(MockStore)
		store.On("Get", ctx, "EN", "houston").
			Return(storemodels.RateRecord{}, ratestore.ErrNotFound).Once()
		store.On("Get", ctx, "EN", "default").
			Return(storemodels.RateRecord{Classification: "EN", Location: "default", HourlyRate: 95.0, OvertimeThreshold: 45.0}, nil).
			Once()

		resolver := NewCachedResolver(store)
		std, err := resolver.Resolve(ctx, domain.ClassificationEN, "houston")
		require.NoError(t, err)
		assert.Equal(t, 95.0, std.HourlyRate)
		assert.Equal(t, "default", std.Location)
		store.AssertExpectations(t)
	})

	t.Run("missing everywhere yields NotFoundError", func(t *testing.T) {
		store := new(MockStore)
		store.On("Get", ctx, "SU", "default").
			Return(storemodels.RateRecord{}, ratestore.ErrNotFound).Once()

		resolver := NewCachedResolver(store)
		_, err := resolver.Resolve(ctx, domain.ClassificationSU, "")

		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, domain.ClassificationSU, notFound.Classification)
		store.AssertExpectations(t)
	})

	t.Run("second resolve served from cache", func(t *testing.T) {
		store := new(MockStore)
		store.On("Get", ctx, "RS", "default").
			Return(storemodels.RateRecord{Classification: "RS", Location: "default", HourlyRate: 70.0, OvertimeThreshold: 40.0}, nil).
			Once()

		resolver := NewCachedResolver(store)
		for i := 0; i < 3; i++ {
			std, err := resolver.Resolve(ctx, domain.ClassificationRS, "default")
			require.NoError(t, err)
			assert.Equal(t, 70.0, std.HourlyRate)
		}
		store.AssertNumberOfCalls(t, "Get", 1)
	})
}
