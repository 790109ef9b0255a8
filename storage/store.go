// Package storage persists screening snapshots and labeled batches as
// compressed tabular objects under the raw_data/, raw_data/archive/ and
// training_data/ namespaces.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const (
	RawPrefix      = "raw_data/"
	ArchivePrefix  = "raw_data/archive/"
	TrainingPrefix = "training_data/"
)

// ErrBucketMissing means no bucket was configured; exports cannot proceed
// and callers should fail the run rather than degrade.
var ErrBucketMissing = errors.New("storage bucket not configured")

var ErrNotFound = errors.New("object not found")

// ObjectStore is the blob collaborator consumed by the pipelines.
type ObjectStore interface {
	List(prefix string) ([]string, error)
	Get(key string) ([]byte, error)
	Put(key string, data []byte) error
	Copy(src string, dst string) error
	Delete(key string) error
}

// ArchiveKey maps an active raw key to its archive location.
func ArchiveKey(key string) string {
	return strings.Replace(key, RawPrefix, ArchivePrefix, 1)
}

// IsDataKey reports whether a listed key is a table we know how to decode.
// Older snapshots were written uncompressed.
func IsDataKey(key string) bool {
	return strings.HasSuffix(key, ".csv.zst") || strings.HasSuffix(key, ".csv")
}

// S3Store implements ObjectStore against one S3 bucket.
type S3Store struct {
	bucket string
	svc    *s3.S3
}

func NewS3Store(bucket string, region string) (*S3Store, error) {
	if bucket == "" {
		return nil, ErrBucketMissing
	}
	sess, err := session.NewSession(aws.NewConfig().WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return &S3Store{bucket: bucket, svc: s3.New(sess)}, nil
}

func (s *S3Store) List(prefix string) ([]string, error) {
	var keys []string
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}
	err := s.svc.ListObjectsV2Pages(input, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			keys = append(keys, aws.StringValue(obj.Key))
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("list %v: %w", prefix, err)
	}
	return keys, nil
}

func (s *S3Store) Get(key string) ([]byte, error) {
	out, err := s.svc.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get %v: %w", key, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (s *S3Store) Put(key string, data []byte) error {
	_, err := s.svc.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("put %v: %w", key, err)
	}
	return nil
}

func (s *S3Store) Copy(src string, dst string) error {
	_, err := s.svc.CopyObject(&s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		CopySource: aws.String(s.bucket + "/" + src),
		Key:        aws.String(dst),
	})
	if err != nil {
		return fmt.Errorf("copy %v -> %v: %w", src, dst, err)
	}
	return nil
}

func (s *S3Store) Delete(key string) error {
	_, err := s.svc.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %v: %w", key, err)
	}
	return nil
}

// MemoryStore is a map-backed ObjectStore for tests and dry runs.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (m *MemoryStore) List(prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryStore) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, key)
	}
	return data, nil
}

func (m *MemoryStore) Put(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *MemoryStore) Copy(src string, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[src]
	if !ok {
		return fmt.Errorf("%w: %v", ErrNotFound, src)
	}
	m.objects[dst] = data
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}
