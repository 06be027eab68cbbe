package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	mockEndpoint = "https://mock.s3.local"
	mockBucket   = "modelshare-test"
)

// NewMockForTests returns a Store backed by an in-process fake S3 endpoint.
func NewMockForTests() *Store {
	store, _ := newMockStore(newFakeS3(0), Config{Bucket: mockBucket})
	return store
}

func newMockStore(fake *fakeS3, cfg Config) (*Store, error) {
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: fake}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String(mockEndpoint)
	})
	return newStore(client, cfg)
}

// fakeS3 answers path-style HeadObject, GetObject, PutObject, DeleteObject
// and ListObjectsV2 requests. ListObjectsV2 pages pageSize keys at a time
// when pageSize is positive.
type fakeS3 struct {
	mu       sync.Mutex
	objects  map[string]fakeObject
	pageSize int
	failPut  map[string]int
	requests []string
}

type fakeObject struct {
	body        []byte
	contentType string
	metadata    map[string]string
}

func newFakeS3(pageSize int) *fakeS3 {
	return &fakeS3{objects: make(map[string]fakeObject), pageSize: pageSize, failPut: make(map[string]int)}
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, key, _ := strings.Cut(strings.TrimPrefix(req.URL.Path, "/"), "/")
	f.requests = append(f.requests, req.Method+" "+key)

	if req.Method == http.MethodGet && req.URL.Query().Get("list-type") == "2" {
		return f.list(req), nil
	}
	switch req.Method {
	case http.MethodHead, http.MethodGet:
		obj, ok := f.objects[key]
		if !ok {
			return respond(http.StatusNotFound, nil, nil), nil
		}
		h := http.Header{
			"Content-Length": {strconv.Itoa(len(obj.body))},
			"Content-Type":   {obj.contentType},
			"Etag":           {fmt.Sprintf("%q", strconv.Itoa(len(obj.body)))},
			"Last-Modified":  {time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Format(http.TimeFormat)},
		}
		for k, v := range obj.metadata {
			h.Set("X-Amz-Meta-"+k, v)
		}
		if req.Method == http.MethodHead {
			return respond(http.StatusOK, h, nil), nil
		}
		return respond(http.StatusOK, h, obj.body), nil
	case http.MethodPut:
		if status, ok := f.failPut[key]; ok {
			return respond(status, nil, nil), nil
		}
		body, _ := io.ReadAll(req.Body)
		if dec, ok := decodeAWSChunked(body); ok {
			body = dec
		}
		md := map[string]string{}
		for k, v := range req.Header {
			if name, ok := strings.CutPrefix(strings.ToLower(k), "x-amz-meta-"); ok && len(v) > 0 {
				md[name] = v[0]
			}
		}
		f.objects[key] = fakeObject{body: body, contentType: req.Header.Get("Content-Type"), metadata: md}
		return respond(http.StatusOK, http.Header{"Etag": {`"put"`}}, nil), nil
	case http.MethodDelete:
		delete(f.objects, key)
		return respond(http.StatusNoContent, nil, nil), nil
	}
	return respond(http.StatusNotImplemented, nil, nil), nil
}

func (f *fakeS3) list(req *http.Request) *http.Response {
	q := req.URL.Query()
	prefix := q.Get("prefix")
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	start := 0
	if tok := q.Get("continuation-token"); tok != "" {
		start, _ = strconv.Atoi(tok)
	}
	end := len(keys)
	truncated := false
	if f.pageSize > 0 && start+f.pageSize < end {
		end = start + f.pageSize
		truncated = true
	}
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><ListBucketResult>`)
	fmt.Fprintf(&b, "<IsTruncated>%t</IsTruncated>", truncated)
	if truncated {
		fmt.Fprintf(&b, "<NextContinuationToken>%d</NextContinuationToken>", end)
	}
	for _, k := range keys[start:end] {
		fmt.Fprintf(&b, "<Contents><Key>%s</Key><Size>%d</Size><LastModified>2024-01-01T00:00:00Z</LastModified></Contents>", k, len(f.objects[k].body))
	}
	b.WriteString("</ListBucketResult>")
	return respond(http.StatusOK, http.Header{"Content-Type": {"application/xml"}}, []byte(b.String()))
}

func (f *fakeS3) object(key string) (fakeObject, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[key]
	return obj, ok
}

func respond(status int, h http.Header, body []byte) *http.Response {
	if h == nil {
		h = http.Header{}
	}
	return &http.Response{StatusCode: status, Header: h, Body: io.NopCloser(bytes.NewReader(body)), ContentLength: int64(len(body))}
}

// decodeAWSChunked unwraps a single-chunk aws-chunked body
// (<hex size>\r\n<data>\r\n0\r\n[trailers]).
func decodeAWSChunked(b []byte) ([]byte, bool) {
	size, rest, ok := bytes.Cut(b, []byte("\r\n"))
	if !ok {
		return nil, false
	}
	n, err := strconv.ParseInt(string(size), 16, 64)
	if err != nil || n < 0 || int64(len(rest)) < n+2 {
		return nil, false
	}
	data, tail := rest[:n], rest[n:]
	if !bytes.HasPrefix(tail, []byte("\r\n0\r\n")) {
		return nil, false
	}
	return data, true
}
