package dao

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/singleflight"

	"github.com/a1s/ntable/internal/aws"
	"github.com/a1s/ntable/internal/params"
)

// S3Objects lists the objects under a bucket prefix.
type S3Objects struct {
	client s3.ListObjectsV2APIClient
	bucket string
	prefix string
}

var _ Lister = (*S3Objects)(nil)

// NewS3Objects returns a lister for path, formatted "bucket" or "bucket/prefix/".
func NewS3Objects(client s3.ListObjectsV2APIClient, path string) (*S3Objects, error) {
	bucket, prefix := parseListPath(path)
	if bucket == "" {
		return nil, fmt.Errorf("invalid path format, expected 'bucket' or 'bucket/prefix/', got: %s", path)
	}

	return &S3Objects{client: client, bucket: bucket, prefix: prefix}, nil
}

// Key returns the cache key of the listing.
func (s *S3Objects) Key() string {
	return "s3:" + s.bucket + "/" + s.prefix
}

// List returns one row per object with key, size, lastModified and storageClass.
func (s *S3Objects) List(ctx context.Context) ([]any, error) {
	input := &s3.ListObjectsV2Input{Bucket: awssdk.String(s.bucket)}
	if s.prefix != "" {
		input.Prefix = awssdk.String(s.prefix)
	}

	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	rows := make([]any, 0)
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, aws.WrapAWSError(err, "list objects")
		}
		for _, obj := range output.Contents {
			row := map[string]any{
				"key":          awssdk.ToString(obj.Key),
				"size":         awssdk.ToInt64(obj.Size),
				"storageClass": string(obj.StorageClass),
				"etag":         strings.Trim(awssdk.ToString(obj.ETag), `"`),
			}
			if obj.LastModified != nil {
				row["lastModified"] = *obj.LastModified
			}
			rows = append(rows, row)
		}
	}

	return rows, nil
}

// ListLoader loads a full listing once per cache TTL and pages it in memory.
// Loads resolve asynchronously.
type ListLoader struct {
	lister Lister
	key    string
	cache  *ListCache
	group  singleflight.Group
	log    *slog.Logger
}

// NewListLoader returns a loader paging the rows of l, cached under key.
func NewListLoader(l Lister, key string, cache *ListCache, log *slog.Logger) *ListLoader {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &ListLoader{lister: l, key: key, cache: cache, log: log}
}

// Load implements params.Loader.
func (l *ListLoader) Load(ctx context.Context, sink *params.Sink, r params.Reader) {
	q := readerSnapshot{
		page:    r.Page(),
		count:   r.Count(),
		sorting: r.Sorting(),
		filter:  r.Filter(),
	}
	go func() {
		rows, err := l.rows(ctx)
		if err != nil {
			sink.Reject(err)
			return
		}
		page, total := Slice(rows, q)
		sink.Resolve(page, total)
	}()
}

// Invalidate drops the cached listing so the next load lists again.
func (l *ListLoader) Invalidate() {
	if l.cache != nil {
		l.cache.Invalidate(l.key)
	}
}

func (l *ListLoader) rows(ctx context.Context) ([]any, error) {
	if l.cache != nil {
		if rows, ok := l.cache.Get(l.key); ok {
			return rows, nil
		}
	}
	v, err, _ := l.group.Do(l.key, func() (any, error) {
		rows, err := l.lister.List(ctx)
		if err != nil {
			return nil, err
		}
		l.log.Debug("listed", "key", l.key, "rows", len(rows))
		if l.cache != nil {
			l.cache.Set(l.key, rows)
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]any), nil
}

// readerSnapshot freezes the parameters of one load so the background
// goroutine does not read params that moved on.
type readerSnapshot struct {
	page    int
	count   int
	sorting params.Sorting
	filter  params.Filter
}

func (q readerSnapshot) Page() int { return q.page }
func (q readerSnapshot) Count() int { return q.count }
func (q readerSnapshot) Sorting() params.Sorting { return q.sorting }
func (q readerSnapshot) Filter() params.Filter { return q.filter }
func (q readerSnapshot) SettingsData() []any { return nil }

func newS3Loader(f Factory, target string) (params.Loader, error) {
	conn := f.Client()
	if conn == nil {
		return nil, aws.ErrNoConnection
	}
	client := conn.S3("")
	if client == nil {
		return nil, errors.New("failed to get S3 client")
	}
	objects, err := NewS3Objects(client, target)
	if err != nil {
		return nil, err
	}

	return NewListLoader(objects, objects.Key(), f.Cache(), f.Logger()), nil
}

// parseListPath splits "bucket/prefix" into its parts.
func parseListPath(path string) (bucket, prefix string) {
	path = strings.TrimPrefix(path, "s3://")
	bucket, prefix, _ = strings.Cut(path, "/")
	return bucket, prefix
}
