package storage_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/assessor/pkg/service/storage"
)

func TestParseURL(t *testing.T) {
	testCases := []struct {
		url     string
		bucket  string
		object  string
		wantErr bool
	}{
		{url: "gs://my-bucket/catalog.toml", bucket: "my-bucket", object: "catalog.toml"},
		{url: "gs://my-bucket/path/to/catalog.yaml", bucket: "my-bucket", object: "path/to/catalog.yaml"},
		{url: "s3://my-bucket/catalog.toml", wantErr: true},
		{url: "gs://my-bucket", wantErr: true},
		{url: "gs://my-bucket/", wantErr: true},
		{url: "gs:///catalog.toml", wantErr: true},
		{url: "gs://my-bucket/dir/", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			bucket, object, err := storage.ParseURL(tc.url)
			if tc.wantErr {
				gt.Error(t, err).Is(storage.ErrInvalidURL)
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, bucket).Equal(tc.bucket)
			gt.Value(t, object).Equal(tc.object)
		})
	}
}

func TestClient_Read(t *testing.T) {
	bucket := os.Getenv("TEST_STORAGE_BUCKET")
	if bucket == "" {
		t.Skip("TEST_STORAGE_BUCKET not set")
	}
	object := os.Getenv("TEST_STORAGE_OBJECT")
	if object == "" {
		t.Skip("TEST_STORAGE_OBJECT not set")
	}

	ctx := context.Background()
	client, err := storage.New(ctx)
	gt.NoError(t, err).Required()
	defer func() { gt.NoError(t, client.Close()) }()

	data, err := client.Read(ctx, bucket, object)
	gt.NoError(t, err).Required()
	gt.Bool(t, len(data) > 0).True()

	_, err = client.Read(ctx, bucket, object+".does-not-exist")
	gt.Error(t, err).Is(storage.ErrObjectNotFound)
}
