// Package s3 scans an S3 bucket prefix into a weighted tree.
//
// Object keys are split on "/" to form the hierarchy below a root node
// named after the bucket, and each object weighs its size in bytes.
// Folder placeholder keys (ending in "/") and empty objects are skipped.
package s3

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/matzehuels/treemap/pkg/source"
	"github.com/matzehuels/treemap/pkg/tree"
	"github.com/matzehuels/treemap/pkg/weight"
)

// Config configures [NewClient].
type Config struct {
	Region string
	// Endpoint overrides the service endpoint, e.g. for MinIO.
	Endpoint string
	// PathStyle addresses buckets as endpoint/bucket instead of bucket.endpoint.
	PathStyle bool
}

// NewClient creates an S3 client. Credentials are read from the standard
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN variables;
// without them requests are sent anonymously, which works for public
// buckets.
func NewClient(cfg Config) *s3.Client {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := s3.Options{
		Region:       region,
		Credentials:  envCredentials(),
		UsePathStyle: cfg.PathStyle,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

func envCredentials() aws.CredentialsProvider {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.AnonymousCredentials{}
	}
	creds := aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return creds, nil
	})
}

// Options configures [Scan].
type Options struct {
	// MaxFiles aborts the scan with [source.ErrTooManyFiles] once more
	// objects have been listed. Zero means [source.DefaultMaxFiles].
	MaxFiles int
	// Logger receives skipped keys. Nil discards them.
	Logger source.Logger
}

// Scan lists all objects below prefix and returns their weighted tree.
func Scan(ctx context.Context, client s3.ListObjectsV2APIClient, bucket, prefix string, opts Options) (m *tree.Model[string, int64], err error) {
	ctx, done := source.Trace(ctx, source.KindS3, "s3://"+bucket+"/"+prefix)
	defer func() {
		n := 0
		if m != nil {
			n = m.Len()
		}
		done(n, err)
	}()

	if bucket == "" {
		return nil, fmt.Errorf("s3: bucket must not be empty")
	}
	logf := opts.Logger
	if logf == nil {
		logf = source.Discard
	}
	limit := source.MaxFiles(opts.MaxFiles)

	m = tree.NewModel[string, int64](weight.Int64())
	if err := m.SetRoot(bucket, 0); err != nil {
		return nil, err
	}

	input := &s3.ListObjectsV2Input{Bucket: aws.String(bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}
	p := s3.NewListObjectsV2Paginator(client, input)

	objects := 0
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list s3://%s/%s: %w", bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			key, size := aws.ToString(obj.Key), aws.ToInt64(obj.Size)
			if strings.HasSuffix(key, "/") || size <= 0 {
				continue
			}
			if objects++; objects > limit {
				return nil, fmt.Errorf("%w: limit is %d", source.ErrTooManyFiles, limit)
			}
			if err := insert(m, bucket, key, size); err != nil {
				logf("skipping %s: %v", key, err)
			}
		}
	}
	return m, nil
}

// insert adds the object and any missing intermediate folders, then
// propagates size up to the root.
func insert(m *tree.Model[string, int64], root, key string, size int64) error {
	var segments []string
	for s := range strings.SplitSeq(key, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return fmt.Errorf("empty key")
	}
	parent := root
	for _, s := range segments[:len(segments)-1] {
		id := parent + tree.Separator + s
		if !m.Contains(id) {
			if err := m.Insert(id, 0, parent, false); err != nil {
				return err
			}
		} else if !m.HasChildren(id) {
			return fmt.Errorf("%s is both an object and a prefix", id)
		}
		parent = id
	}
	return m.Add(parent+tree.Separator+segments[len(segments)-1], size, parent)
}
