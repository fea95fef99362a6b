package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elkontrol/inspections/api/internal/checklist/application"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[key] = data
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3StoreLifecycle(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	store := NewS3StoreWithClient(client, S3StoreConfig{Bucket: "eltjek", Region: "eu-north-1", Prefix: "/prod/"})

	stored, err := store.Put(ctx, application.Object{
		Path:        "inspections/i1/item/a1.jpg",
		ContentType: "image/jpeg",
		Size:        3,
		Body:        strings.NewReader("abc"),
	})
	require.NoError(t, err)
	assert.Equal(t, "inspections/i1/item/a1.jpg", stored.Path)
	assert.Equal(t, "https://eltjek.s3.eu-north-1.amazonaws.com/prod/inspections/i1/item/a1.jpg", stored.URL)
	assert.Equal(t, "image/jpeg", client.types["eltjek/prod/inspections/i1/item/a1.jpg"])

	rc, err := store.Open(ctx, stored.Path)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, []byte("abc"), data)

	require.NoError(t, store.Delete(ctx, stored.Path))
	_, err = store.Open(ctx, stored.Path)
	assert.Error(t, err)
}

func TestS3StoreURLs(t *testing.T) {
	local := NewS3StoreWithClient(newFakeS3(), S3StoreConfig{Bucket: "b", Endpoint: "http://localhost:9000/"})
	assert.Equal(t, "http://localhost:9000/b/x/billede%201.png", local.URL("x/billede 1.png"))

	cdn := NewS3StoreWithClient(newFakeS3(), S3StoreConfig{Bucket: "b", PublicBaseURL: "https://cdn.example/", Prefix: "media"})
	assert.Equal(t, "https://cdn.example/media/a.jpg", cdn.URL("a.jpg"))
}

func TestS3StorePutError(t *testing.T) {
	client := newFakeS3()
	client.putErr = errors.New("denied")
	store := NewS3StoreWithClient(client, S3StoreConfig{Bucket: "b", Region: "eu-north-1"})
	_, err := store.Put(context.Background(), application.Object{Path: "a", Body: strings.NewReader("x")})
	assert.ErrorContains(t, err, "denied")
}
