package upload

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	appcfg "github.com/solsticehq/solstice-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	putInput *s3.PutObjectInput
	putErr   error
	deleted  []string
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putInput = params
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, *params.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestNewS3MirrorDisabled(t *testing.T) {
	mirror, err := NewS3Mirror(context.Background(), appcfg.S3Config{Enable: false})
	require.NoError(t, err)
	assert.Nil(t, mirror)
}

func TestS3MirrorPutReturnsPublicURL(t *testing.T) {
	client := &fakeS3{}
	mirror := newS3MirrorWithClient(client, appcfg.S3Config{
		Enable: true,
		Bucket: "media",
		Region: "eu-west-1",
	})

	url, err := mirror.Put(context.Background(), "images/2026/03/x.png", "image/png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "https://media.s3.eu-west-1.amazonaws.com/images/2026/03/x.png", url)
	require.NotNil(t, client.putInput)
	assert.Equal(t, "media", *client.putInput.Bucket)
	assert.Equal(t, "image/png", *client.putInput.ContentType)
}

func TestS3MirrorCustomDomainWins(t *testing.T) {
	mirror := newS3MirrorWithClient(&fakeS3{}, appcfg.S3Config{
		Enable:       true,
		Bucket:       "media",
		Endpoint:     "https://minio.internal:9000",
		CustomDomain: "https://cdn.solstice.example/",
	})

	url, err := mirror.Put(context.Background(), "k.png", "image/png", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.solstice.example/k.png", url)
}

func TestS3MirrorPutFailure(t *testing.T) {
	client := &fakeS3{putErr: errors.New("access denied")}
	mirror := newS3MirrorWithClient(client, appcfg.S3Config{Enable: true, Bucket: "media"})

	_, err := mirror.Put(context.Background(), "k.png", "image/png", nil)
	assert.ErrorContains(t, err, "access denied")
}

func TestS3MirrorDelete(t *testing.T) {
	client := &fakeS3{}
	mirror := newS3MirrorWithClient(client, appcfg.S3Config{Enable: true, Bucket: "media"})

	require.NoError(t, mirror.Delete(context.Background(), "k.png"))
	assert.Equal(t, []string{"k.png"}, client.deleted)
}
