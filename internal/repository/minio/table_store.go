// Package minio stores one JSON object per row under {table}/{partition}/{rowKey}.json.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/reflectionapp/reflection/api/internal/domain"
)

const objectSuffix = ".json"

// API is the subset of the MinIO client used by TableStore
type API interface {
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
}

// TableStore serves partition scans from an object bucket
type TableStore struct {
	client API
	bucket string
}

// NewTableStore creates a store on an existing client and bucket
func NewTableStore(client API, bucket string) *TableStore {
	return &TableStore{client: client, bucket: bucket}
}

func partitionPrefix(table domain.Table) string {
	return table.Name + "/" + table.PartitionKey + "/"
}

func objectName(table domain.Table, rowKey string) string {
	return partitionPrefix(table) + rowKey + objectSuffix
}

// ScanPartition lists the partition prefix and fetches every object.
// The object's last-modified time is the row timestamp.
func (s *TableStore) ScanPartition(ctx context.Context, table domain.Table) ([]domain.TableEntity, error) {
	// Stops the lister goroutine when we return early
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prefix := partitionPrefix(table)

	var entities []domain.TableEntity
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list partition objects: %w", obj.Err)
		}
		if !strings.HasSuffix(obj.Key, objectSuffix) {
			continue
		}

		data, err := s.readObject(ctx, obj.Key)
		if err != nil {
			return nil, err
		}

		entities = append(entities, domain.TableEntity{
			PartitionKey: table.PartitionKey,
			RowKey:       strings.TrimSuffix(strings.TrimPrefix(obj.Key, prefix), objectSuffix),
			Timestamp:    obj.LastModified,
			Properties:   data,
		})
	}

	domain.SortEntities(entities)
	return entities, nil
}

func (s *TableStore) readObject(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	return data, nil
}

// PutEntity writes the row's properties as an object. The row timestamp is
// assigned by the object store.
func (s *TableStore) PutEntity(ctx context.Context, table domain.Table, entity domain.TableEntity) error {
	if !validRowKey(entity.RowKey) {
		return fmt.Errorf("row key %q is not a valid object name segment", entity.RowKey)
	}

	_, err := s.client.PutObject(ctx, s.bucket, objectName(table, entity.RowKey),
		bytes.NewReader(entity.Properties), int64(len(entity.Properties)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

func validRowKey(key string) bool {
	switch key {
	case "", ".", "..":
		return false
	}
	return !strings.Contains(key, "/")
}

// Ping checks that the bucket is reachable
func (s *TableStore) Ping(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", s.bucket)
	}
	return nil
}

// Close is a no-op
func (s *TableStore) Close() error {
	return nil
}
