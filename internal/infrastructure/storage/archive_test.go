package storage

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sangkips/library-api/internal/config"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3ArchivePut(t *testing.T) {
	putter := &fakePutter{}
	archive := newS3Archive(putter, "reports", "library")
	archive.now = func() time.Time { return time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC) }

	key, err := archive.Put(context.Background(), "stock-TIN7.pdf", []byte("%PDF"), "application/pdf")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if key != "library/2024/03/stock-TIN7.pdf" {
		t.Errorf("key = %q", key)
	}
	if aws.ToString(putter.input.Bucket) != "reports" {
		t.Errorf("bucket = %q", aws.ToString(putter.input.Bucket))
	}
	if aws.ToString(putter.input.ContentType) != "application/pdf" {
		t.Errorf("content type = %q", aws.ToString(putter.input.ContentType))
	}
	if string(putter.body) != "%PDF" {
		t.Errorf("body = %q", putter.body)
	}
}

func TestS3ArchiveKeyStripsDirectories(t *testing.T) {
	archive := newS3Archive(&fakePutter{}, "b", "")
	archive.now = func() time.Time { return time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC) }

	if got := archive.Key("../../etc/report.pdf"); got != "2023/12/report.pdf" {
		t.Errorf("Key = %q", got)
	}
}

func TestS3ArchivePutError(t *testing.T) {
	putter := &fakePutter{err: errors.New("boom")}
	archive := newS3Archive(putter, "b", "p")

	if _, err := archive.Put(context.Background(), "x.pdf", nil, "application/pdf"); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewS3ArchiveDisabled(t *testing.T) {
	_, err := NewS3Archive(context.Background(), &config.ArchiveConfig{})
	if !errors.Is(err, ErrArchiveDisabled) {
		t.Fatalf("err = %v, want ErrArchiveDisabled", err)
	}
}
