package dbmongo

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gofun/internal/common"
	"gofun/internal/config"
)

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// integrationClient connects to the docker-compose MongoDB. Set MONGO_INTEGRATION=1 to run.
func integrationClient(t *testing.T) (*MongoClient, *config.Config) {
	t.Helper()
	if os.Getenv("MONGO_INTEGRATION") == "" {
		t.Skip("MONGO_INTEGRATION not set")
	}
	cfg := &config.Config{
		MongoDB: config.MongoDBConfig{
			Host:     getEnvOrDefault("MONGO_HOST", "localhost"),
			Port:     getEnvOrDefault("MONGO_PORT", "27017"),
			Username: getEnvOrDefault("MONGO_USERNAME", "admin"),
			Password: getEnvOrDefault("MONGO_PASSWORD", "admin123"),
			Database: getEnvOrDefault("MONGO_DATABASE", "gofun_test"),

			MediaBucket:      "fun_media_test",
			SearchCollection: "fun_search_test",
		},
		Ranking: config.RankingConfig{PerPage: 5},
	}
	client, err := NewMongoConnection(cfg)
	require.NoError(t, err, "ensure MongoDB is running")
	t.Cleanup(func() { client.Close(context.Background()) })
	return client, cfg
}

func TestMediaStorage_Integration(t *testing.T) {
	client, _ := integrationClient(t)
	storage := NewMediaStorage(client)
	ctx := context.Background()

	uploaded, err := storage.UploadFile(ctx, "clip.mp4", "video/mp4", "42", strings.NewReader("fake-video"))
	require.NoError(t, err)
	assert.Equal(t, common.ContentTypeVideo, uploaded.FileType)
	assert.Equal(t, int64(len("fake-video")), uploaded.Size)

	reader, file, err := storage.DownloadFile(ctx, uploaded.ID)
	require.NoError(t, err)
	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "fake-video", string(content))
	assert.Equal(t, "42", file.UploadedBy)
	assert.Equal(t, "video/mp4", file.MimeType)

	require.NoError(t, storage.DeleteFile(ctx, uploaded.ID))
	_, _, err = storage.DownloadFile(ctx, uploaded.ID)
	assert.True(t, common.IsNotFound(err))

	_, _, err = storage.DownloadFile(ctx, "invalid-objectid")
	assert.Contains(t, err.Error(), "invalid file ID")
}

func TestTagIndex_Integration(t *testing.T) {
	client, cfg := integrationClient(t)
	index := NewTagIndex(client, cfg)
	ctx := context.Background()
	require.Equal(t, "fun_search_test", index.coll.Name())
	require.NoError(t, index.coll.Drop(ctx))
	require.NoError(t, index.EnsureIndexes(ctx))

	require.NoError(t, index.Index(ctx, common.SearchDocument{FunID: 1, Type: common.ContentTypeImage, Title: "a cat", Tags: []string{"cats", "pets"}}))
	require.NoError(t, index.Index(ctx, common.SearchDocument{FunID: 2, Type: common.ContentTypeVideo, Title: "dog", Tags: []string{"dogs"}}))
	require.NoError(t, index.Index(ctx, common.SearchDocument{FunID: 3, Type: common.ContentTypePost, Tags: []string{"cats"}}))

	ids, err := index.SearchIDs(ctx, "cats", nil, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 3}, ids)

	ids, err = index.SearchIDs(ctx, "cats", []common.ContentType{common.ContentTypePost}, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids)

	require.NoError(t, index.Remove(ctx, 3))
	ids, err = index.SearchIDs(ctx, "cats", nil, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)
}
