// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package archivetest provides an in-memory versioned S3 bucket for tests of
// the template archive.
package archivetest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Object is one stored version or delete marker.
type Object struct {
	Key      string
	ID       string
	Body     []byte
	Meta     map[string]string
	Modified time.Time
	Deleted  bool
}

// Bucket is an in-memory versioned bucket. Versions are appended oldest
// first, one hour apart, and listed in pages of PageSize.
type Bucket struct {
	Objects  []Object
	PageSize int
	// Gets counts GetObject calls.
	Gets int
	// FailPut, when set, is returned by PutObject.
	FailPut error

	clock time.Time
}

// NewBucket returns an empty bucket.
func NewBucket() *Bucket {
	return &Bucket{clock: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC), PageSize: 1000}
}

// Add stores a version, or a delete marker when deleted is set, and returns
// its version id ("v01", "v02", ...).
func (b *Bucket) Add(key string, body []byte, meta map[string]string, deleted bool) string {
	b.clock = b.clock.Add(time.Hour)
	id := fmt.Sprintf("v%02d", len(b.Objects)+1)
	b.Objects = append(b.Objects, Object{Key: key, ID: id, Body: body, Meta: meta, Modified: b.clock, Deleted: deleted})
	return id
}

func (b *Bucket) find(key, id string) (Object, bool) {
	for _, o := range b.Objects {
		if o.Key == key && o.ID == id && !o.Deleted {
			return o, true
		}
	}
	return Object{}, false
}

func (b *Bucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if b.FailPut != nil {
		return nil, b.FailPut
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	id := b.Add(*in.Key, body, in.Metadata, false)
	return &s3.PutObjectOutput{VersionId: awsv2.String(id)}, nil
}

func (b *Bucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b.Gets++
	o, ok := b.find(*in.Key, awsv2.ToString(in.VersionId))
	if !ok {
		return nil, errors.New("NoSuchVersion")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(o.Body))}, nil
}

func (b *Bucket) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	o, ok := b.find(*in.Key, awsv2.ToString(in.VersionId))
	if !ok {
		return nil, errors.New("NotFound")
	}
	return &s3.HeadObjectOutput{Metadata: o.Meta, VersionId: awsv2.String(o.ID)}, nil
}

func (b *Bucket) ListObjectVersions(_ context.Context, in *s3.ListObjectVersionsInput, _ ...func(*s3.Options)) (*s3.ListObjectVersionsOutput, error) {
	var matched []Object
	for _, o := range b.Objects {
		if strings.HasPrefix(o.Key, awsv2.ToString(in.Prefix)) {
			matched = append(matched, o)
		}
	}

	start := 0
	if m := awsv2.ToString(in.VersionIdMarker); m != "" {
		for i, o := range matched {
			if o.ID == m {
				start = i + 1
			}
		}
	}
	end := min(start+b.PageSize, len(matched))

	out := &s3.ListObjectVersionsOutput{IsTruncated: awsv2.Bool(end < len(matched))}
	latest := map[string]string{}
	for _, o := range matched {
		latest[o.Key] = o.ID
	}
	for _, o := range matched[start:end] {
		if o.Deleted {
			out.DeleteMarkers = append(out.DeleteMarkers, types.DeleteMarkerEntry{
				Key: awsv2.String(o.Key), VersionId: awsv2.String(o.ID), LastModified: awsv2.Time(o.Modified),
			})
			continue
		}
		out.Versions = append(out.Versions, types.ObjectVersion{
			Key:          awsv2.String(o.Key),
			VersionId:    awsv2.String(o.ID),
			LastModified: awsv2.Time(o.Modified),
			Size:         awsv2.Int64(int64(len(o.Body))),
			IsLatest:     awsv2.Bool(latest[o.Key] == o.ID),
		})
	}
	if end < len(matched) {
		out.NextKeyMarker = awsv2.String(matched[end-1].Key)
		out.NextVersionIdMarker = awsv2.String(matched[end-1].ID)
	}
	return out, nil
}
