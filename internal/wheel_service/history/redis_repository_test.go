package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// 模擬的 Redis 管理器
type MockRedisManager struct {
	mock.Mock
}

func (m *MockRedisManager) PushCapped(ctx context.Context, key string, value interface{}, maxLen int64) error {
	args := m.Called(ctx, key, value, maxLen)
	return args.Error(0)
}

func (m *MockRedisManager) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	args := m.Called(ctx, key, start, stop)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRedisManager) LLen(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRedisManager) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockRedisManager) Close() error {
	return m.Called().Error(0)
}

func (m *MockRedisManager) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockRedisManager) GetClient() *redis.Client {
	return nil
}

func TestRedisRepositorySave(t *testing.T) {
	mockRedis := new(MockRedisManager)
	repo := NewRedisRepository(mockRedis, "wheel:history", 100, nil)

	record := SpinRecord{
		SpinID:     "spin-1",
		OptionID:   3,
		OptionName: "煲仔飯",
		Emoji:      "🍲",
		Timestamp:  time.Date(2026, 5, 1, 12, 30, 0, 0, time.UTC),
	}

	mockRedis.On("PushCapped", mock.Anything, "wheel:history", mock.MatchedBy(func(v interface{}) bool {
		data, ok := v.([]byte)
		if !ok {
			return false
		}
		var decoded SpinRecord
		return json.Unmarshal(data, &decoded) == nil && decoded.SpinID == "spin-1" && decoded.OptionName == "煲仔飯"
	}), int64(100)).Return(nil)

	require.NoError(t, repo.Save(context.Background(), record))
	mockRedis.AssertExpectations(t)
}

func TestRedisRepositorySaveError(t *testing.T) {
	mockRedis := new(MockRedisManager)
	repo := NewRedisRepository(mockRedis, "wheel:history", 100, nil)

	mockRedis.On("PushCapped", mock.Anything, "wheel:history", mock.Anything, int64(100)).
		Return(errors.New("connection refused"))

	err := repo.Save(context.Background(), SpinRecord{SpinID: "spin-1"})
	assert.ErrorContains(t, err, "connection refused")
}

func TestRedisRepositoryRecentSkipsCorruptEntries(t *testing.T) {
	mockRedis := new(MockRedisManager)
	repo := NewRedisRepository(mockRedis, "wheel:history", 100, nil)

	mockRedis.On("LRange", mock.Anything, "wheel:history", int64(0), int64(4)).Return([]string{
		`{"spinId":"b","optionId":2,"optionName":"便當","timestamp":"2026-05-01T12:01:00Z"}`,
		`not json`,
		`{"spinId":"a","optionId":1,"optionName":"拉麵","timestamp":"2026-05-01T12:00:00Z"}`,
	}, nil)

	records, err := repo.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].SpinID)
	assert.Equal(t, "a", records[1].SpinID)
	assert.Equal(t, time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC), records[1].Timestamp.UTC())
}

func TestRedisRepositoryRecentCapsLimit(t *testing.T) {
	mockRedis := new(MockRedisManager)
	repo := NewRedisRepository(mockRedis, "k", 20, nil)

	mockRedis.On("LRange", mock.Anything, "k", int64(0), int64(19)).Return([]string{}, nil)

	records, err := repo.Recent(context.Background(), 500)
	require.NoError(t, err)
	assert.Empty(t, records)
	mockRedis.AssertExpectations(t)
}

func TestRedisRepositoryClearAndPing(t *testing.T) {
	mockRedis := new(MockRedisManager)
	repo := NewRedisRepository(mockRedis, "wheel:history", 100, nil)

	mockRedis.On("Delete", mock.Anything, []string{"wheel:history"}).Return(nil)
	mockRedis.On("Ping", mock.Anything).Return(errors.New("timeout"))

	assert.NoError(t, repo.Clear(context.Background()))
	assert.Error(t, repo.Ping(context.Background()))
	assert.Equal(t, "redis", repo.Name())
	mockRedis.AssertExpectations(t)
}
