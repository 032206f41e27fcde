package s3

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/matzehuels/treemap/pkg/source"
)

type object struct {
	key  string
	size int64
}

// fakeClient serves objects in pages of pageSize, continuing by index.
type fakeClient struct {
	objects  []object
	pageSize int
	calls    int
	prefix   string
	err      error
}

func (c *fakeClient) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	c.calls++
	c.prefix = aws.ToString(in.Prefix)
	if c.err != nil {
		return nil, c.err
	}
	start := 0
	if in.ContinuationToken != nil {
		start, _ = strconv.Atoi(*in.ContinuationToken)
	}
	end := min(start+c.pageSize, len(c.objects))

	out := &s3.ListObjectsV2Output{}
	for _, o := range c.objects[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(o.key), Size: aws.Int64(o.size)})
	}
	if end < len(c.objects) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

var bucketObjects = []object{
	{"logs/", 0},
	{"logs/2024/a.gz", 100},
	{"logs/2024/b.gz", 50},
	{"logs/2025/c.gz", 25},
	{"readme.txt", 5},
	{"empty.txt", 0},
}

func TestScan(t *testing.T) {
	client := &fakeClient{objects: bucketObjects, pageSize: 2}
	m, err := Scan(context.Background(), client, "bucket", "", Options{})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	if client.calls != 3 {
		t.Errorf("ListObjectsV2 calls = %d, want 3", client.calls)
	}
	if m.Root() != "bucket" {
		t.Errorf("Root() = %q, want bucket", m.Root())
	}
	weights := map[string]int64{
		"bucket":                175 + 5,
		"bucket/logs":           175,
		"bucket/logs/2024":      150,
		"bucket/logs/2024/a.gz": 100,
		"bucket/logs/2025":      25,
		"bucket/readme.txt":     5,
	}
	for id, want := range weights {
		if got := m.Weight(id); got != want {
			t.Errorf("Weight(%s) = %d, want %d", id, got, want)
		}
	}
	if m.Contains("bucket/empty.txt") {
		t.Error("empty object should be skipped")
	}
	if got := slices.Collect(m.Children("bucket")); !slices.Equal(got, []string{"bucket/logs", "bucket/readme.txt"}) {
		t.Errorf("root children = %v", got)
	}
}

func TestScanPrefix(t *testing.T) {
	client := &fakeClient{objects: bucketObjects[1:3], pageSize: 10}
	m, err := Scan(context.Background(), client, "bucket", "logs/2024/", Options{})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if client.prefix != "logs/2024/" {
		t.Errorf("Prefix = %q, want logs/2024/", client.prefix)
	}
	if got := m.Weight("bucket"); got != 150 {
		t.Errorf("root weight = %d, want 150", got)
	}
}

func TestScanConflictingKeys(t *testing.T) {
	var logged []string
	client := &fakeClient{objects: []object{{"a", 1}, {"a/b", 2}}, pageSize: 10}
	m, err := Scan(context.Background(), client, "bucket", "", Options{
		Logger: func(format string, args ...any) { logged = append(logged, format) },
	})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(logged) != 1 {
		t.Errorf("logged %d problems, want 1", len(logged))
	}
	if got := m.Weight("bucket"); got != 1 {
		t.Errorf("root weight = %d, want 1", got)
	}
}

func TestScanErrors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name   string
		client *fakeClient
		bucket string
		opts   Options
		want   error
	}{
		{"list error", &fakeClient{err: boom, pageSize: 1}, "bucket", Options{}, boom},
		{"too many", &fakeClient{objects: bucketObjects, pageSize: 10}, "bucket", Options{MaxFiles: 2}, source.ErrTooManyFiles},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Scan(context.Background(), tt.client, tt.bucket, "", tt.opts); !errors.Is(err, tt.want) {
				t.Errorf("Scan() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Scan(context.Background(), &fakeClient{pageSize: 1}, "", "", Options{}); err == nil {
		t.Error("expected error for empty bucket")
	}
}

func TestNewClient(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	if _, ok := envCredentials().(aws.AnonymousCredentials); !ok {
		t.Error("expected anonymous credentials without environment")
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	creds, err := envCredentials().Retrieve(context.Background())
	if err != nil {
		t.Fatalf("Retrieve() error: %v", err)
	}
	if creds.AccessKeyID != "id" || creds.SecretAccessKey != "secret" {
		t.Errorf("credentials = %+v", creds)
	}

	c := NewClient(Config{Endpoint: "http://localhost:9000", PathStyle: true})
	if o := c.Options(); o.Region != "us-east-1" || !o.UsePathStyle || aws.ToString(o.BaseEndpoint) != "http://localhost:9000" {
		t.Errorf("options = region %q, path style %v, endpoint %q", o.Region, o.UsePathStyle, aws.ToString(o.BaseEndpoint))
	}
}
