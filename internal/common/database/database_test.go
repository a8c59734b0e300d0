package database

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"jobvance-workers/internal/common/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedis_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()))

	mr.Close()
	assert.Error(t, client.Ping(context.Background()))
}

func TestNewRedis_EmptyAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.ErrorIs(t, err, ErrNoRedisAddress)
}

func TestRedisOptions_PoolSize(t *testing.T) {
	opts := redisOptions(config.RedisConfig{Address: "localhost:6379"})
	assert.Equal(t, 10, opts.PoolSize)
	assert.Equal(t, 2, opts.MinIdleConns)

	opts = redisOptions(config.RedisConfig{Address: "localhost:6379", PoolSize: 40, DB: 2})
	assert.Equal(t, 40, opts.PoolSize)
	assert.Equal(t, 10, opts.MinIdleConns)
	assert.Equal(t, 2, opts.DB)
}

func TestNewPostgres_LazyOpen(t *testing.T) {
	client, err := NewPostgres(config.PostgresConfig{
		Host:           "localhost",
		Port:           5432,
		Database:       "jobvance",
		User:           "jobvance",
		MaxConnections: 5,
		MaxIdle:        1,
		SSLMode:        "disable",
	})
	require.NoError(t, err)
	assert.NoError(t, client.Close())
}

func TestPostgres_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS profiles").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS resume_variants").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS resume_variants_user_id_idx").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	client := &PostgresClient{DB: db}
	require.NoError(t, client.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_EnsureSchemaRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS profiles").WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	client := &PostgresClient{DB: db}
	err = client.EnsureSchema(context.Background())
	assert.True(t, errors.Is(err, sql.ErrConnDone))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestElasticsearch_EnsureIndex(t *testing.T) {
	tests := []struct {
		name        string
		headStatus  int
		wantCreated bool
		wantPut     bool
		wantErr     bool
	}{
		{name: "missing index is created", headStatus: http.StatusNotFound, wantCreated: true, wantPut: true},
		{name: "existing index is kept", headStatus: http.StatusOK},
		{name: "cluster error", headStatus: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var putBody string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Elastic-Product", "Elasticsearch")
				w.Header().Set("Content-Type", "application/json")
				switch r.Method {
				case http.MethodHead:
					w.WriteHeader(tt.headStatus)
				case http.MethodPut:
					b, _ := io.ReadAll(r.Body)
					putBody = string(b)
					_, _ = w.Write([]byte(`{"acknowledged":true,"index":"job_listings"}`))
				default:
					w.WriteHeader(http.StatusMethodNotAllowed)
				}
			}))
			defer server.Close()

			client, err := NewElasticsearch(config.ElasticsearchConfig{
				Addresses: []string{server.URL},
				JobsIndex: "job_listings",
			})
			require.NoError(t, err)

			created, err := client.EnsureIndex(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCreated, created)
			if tt.wantPut {
				assert.Contains(t, putBody, `"posted_at"`)
			} else {
				assert.Empty(t, putBody)
			}
		})
	}
}

func TestElasticsearch_Ping(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(int(status.Load()))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, err := NewElasticsearch(config.ElasticsearchConfig{
		Addresses: []string{server.URL},
		JobsIndex: "job_listings",
	})
	require.NoError(t, err)
	assert.Equal(t, "job_listings", client.Index)
	assert.NoError(t, client.Ping(context.Background()))

	status.Store(http.StatusServiceUnavailable)
	assert.Error(t, client.Ping(context.Background()))
}
