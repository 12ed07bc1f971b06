// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/staranto/wsinfra/internal/cacheutil"
	"github.com/staranto/wsinfra/internal/config"
	"github.com/staranto/wsinfra/internal/log"
	"github.com/staranto/wsinfra/internal/tvutil"
)

// Object metadata keys.
const (
	MetaFingerprint = "fingerprint"
	MetaPublishID   = "publish-id"
	MetaStack       = "stack"
)

// ErrNoBucket is returned when no archive bucket is configured.
var ErrNoBucket = errors.New("archive bucket not configured")

// API is the part of the S3 client the archive uses.
type API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectVersions(ctx context.Context, in *s3.ListObjectVersionsInput, optFns ...func(*s3.Options)) (*s3.ListObjectVersionsOutput, error)
}

// Archive is a template archive in one bucket.
type Archive struct {
	client API
	bucket string
	prefix string
}

// Version is one archived template.
type Version struct {
	Stack       string    `json:"stack" yaml:"stack"`
	ID          string    `json:"id" yaml:"id"`
	Created     time.Time `json:"created" yaml:"created"`
	Size        int64     `json:"size" yaml:"size"`
	Latest      bool      `json:"latest" yaml:"latest"`
	Fingerprint string    `json:"fingerprint" yaml:"fingerprint"`
	PublishID   string    `json:"publishId" yaml:"publishId"`
}

// Published is the outcome of one Publish.
type Published struct {
	Version
	// Skipped is set when the latest version already had this fingerprint.
	Skipped bool `json:"skipped" yaml:"skipped"`
}

// Document is a resolved version spec with its template body.
type Document struct {
	Target tvutil.Target
	Body   []byte
}

// New returns the archive described by a.
func New(client API, a config.Archive) (*Archive, error) {
	if a.Bucket == "" {
		return nil, ErrNoBucket
	}
	return &Archive{client: client, bucket: a.Bucket, prefix: a.Prefix}, nil
}

// Bucket returns the bucket name.
func (a *Archive) Bucket() string {
	return a.bucket
}

// Key returns the object key of a stack's template.
func (a *Archive) Key(stack string) string {
	return path.Join(a.prefix, stack+".template.json")
}

// Publish uploads body as a new version of the stack's template. Unless
// force is set, it skips the upload when the latest version already carries
// fingerprint.
func (a *Archive) Publish(ctx context.Context, stack string, body []byte, fingerprint string, force bool) (Published, error) {
	if !force {
		versions, err := a.Versions(ctx, stack, 1)
		if err != nil {
			return Published{}, err
		}
		if len(versions) == 1 && versions[0].Fingerprint == fingerprint {
			log.Debugf("publish skipped: stack=%s version=%s", stack, versions[0].ID)
			return Published{Version: versions[0], Skipped: true}, nil
		}
	}

	publishID := uuid.NewString()
	key := a.Key(stack)
	out, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      awsv2.String(a.bucket),
		Key:         awsv2.String(key),
		Body:        bytes.NewReader(body),
		ContentType: awsv2.String("application/json"),
		Metadata: map[string]string{
			MetaFingerprint: fingerprint,
			MetaPublishID:   publishID,
			MetaStack:       stack,
		},
	})
	if err != nil {
		return Published{}, fmt.Errorf("putting s3://%s/%s: %w", a.bucket, key, err)
	}
	log.Debugf("published: key=%s version=%s publish-id=%s", key, awsv2.ToString(out.VersionId), publishID)

	return Published{Version: Version{
		Stack:       stack,
		ID:          awsv2.ToString(out.VersionId),
		Created:     time.Now().UTC(),
		Size:        int64(len(body)),
		Latest:      true,
		Fingerprint: fingerprint,
		PublishID:   publishID,
	}}, nil
}

// Versions lists the stack's template versions newest first, at most limit
// of them when limit > 0. Versions older than the latest delete marker are
// dropped.
func (a *Archive) Versions(ctx context.Context, stack string, limit int) ([]Version, error) {
	key := a.Key(stack)

	paginator := s3.NewListObjectVersionsPaginator(a.client, &s3.ListObjectVersionsInput{
		Bucket: awsv2.String(a.bucket),
		Prefix: awsv2.String(key),
	})

	var versions []Version
	var lastDelete time.Time
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing versions of s3://%s/%s: %w", a.bucket, key, err)
		}
		for _, d := range page.DeleteMarkers {
			if awsv2.ToString(d.Key) != key || d.LastModified == nil {
				continue
			}
			if d.LastModified.After(lastDelete) {
				lastDelete = *d.LastModified
			}
		}
		for _, v := range page.Versions {
			// The prefix also matches longer keys.
			if awsv2.ToString(v.Key) != key || v.VersionId == nil || v.LastModified == nil {
				continue
			}
			versions = append(versions, Version{
				Stack:   stack,
				ID:      *v.VersionId,
				Created: *v.LastModified,
				Size:    awsv2.ToInt64(v.Size),
				Latest:  awsv2.ToBool(v.IsLatest),
			})
		}
	}

	live := versions[:0]
	for _, v := range versions {
		if v.Created.After(lastDelete) {
			live = append(live, v)
		}
	}
	versions = live

	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].Created.After(versions[j].Created)
	})
	if limit > 0 && len(versions) > limit {
		versions = versions[:limit]
	}

	for i := range versions {
		head, err := a.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket:    awsv2.String(a.bucket),
			Key:       awsv2.String(key),
			VersionId: awsv2.String(versions[i].ID),
		})
		if err != nil {
			log.WithError(err).Warnf("head failed: key=%s version=%s", key, versions[i].ID)
			continue
		}
		versions[i].Fingerprint = head.Metadata[MetaFingerprint]
		versions[i].PublishID = head.Metadata[MetaPublishID]
	}

	log.Debugf("versions: key=%s count=%d", key, len(versions))
	return versions, nil
}

// Body returns the template body of one version, from the cache when
// possible. Version bodies never change, so cached entries never go stale.
func (a *Archive) Body(ctx context.Context, stack, versionID string) ([]byte, error) {
	if err := purgeCache(); err != nil {
		log.WithError(err).Warnf("cache purge failed")
	}

	key := a.Key(stack)
	sub := []string{"archive", a.bucket, key}
	if entry, ok := cacheutil.Read(sub, versionID); ok {
		return entry.Data, nil
	}

	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket:    awsv2.String(a.bucket),
		Key:       awsv2.String(key),
		VersionId: awsv2.String(versionID),
	})
	if err != nil {
		return nil, fmt.Errorf("getting s3://%s/%s@%s: %w", a.bucket, key, versionID, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading s3://%s/%s@%s: %w", a.bucket, key, versionID, err)
	}

	if err := cacheutil.Write(sub, versionID, body); err != nil {
		log.WithError(err).Warnf("cache write failed: version=%s", versionID)
	}
	return body, nil
}

// Resolve resolves version specs (see tvutil) for a stack and loads each
// body.
func (a *Archive) Resolve(ctx context.Context, stack string, specs ...string) ([]Document, error) {
	versions, err := a.Versions(ctx, stack, 0)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(versions))
	for i, v := range versions {
		ids[i] = v.ID
	}

	targets, err := tvutil.Resolve(ids, specs...)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(targets))
	for _, t := range targets {
		var body []byte
		if t.IsFile() {
			body, err = os.ReadFile(t.File)
		} else {
			body, err = a.Body(ctx, stack, t.ID)
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{Target: t, Body: body})
	}
	return docs, nil
}

func purgeCache() error {
	hours, _ := config.GetInt("cache.clean")
	return cacheutil.Purge(hours)
}
