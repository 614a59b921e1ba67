// pkg/object/s3.go

package object

import (
	"context"
	"io"
	"net/url"
	"strings"

	"BinView/pkg/source"
	"BinView/pkg/version"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

// s3Handle addresses one object of an S3 compatible store:
// s3://[access:secret@]endpoint/bucket/key[?ssl=false]
type s3Handle struct {
	client *minio.Client
	bucket string
	key    string
}

func newS3Handle(u *url.URL) (source.Handle, error) {
	parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
	if u.Host == "" || len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, errors.Errorf("invalid object uri %s, want %s://endpoint/bucket/key", u.Redacted(), u.Scheme)
	}
	creds := credentials.NewEnvAWS()
	if u.User != nil {
		secret, _ := u.User.Password()
		creds = credentials.NewStaticV4(u.User.Username(), secret, "")
	}
	secure := u.Scheme == "s3"
	if v := u.Query().Get("ssl"); v != "" {
		secure = v == "true" || v == "1"
	}
	client, err := minio.New(u.Host, &minio.Options{Creds: creds, Secure: secure})
	if err != nil {
		return nil, errors.Wrapf(err, "connect %s", u.Host)
	}
	client.SetAppInfo(version.UserAgent())
	return &s3Handle{client: client, bucket: parts[0], key: parts[1]}, nil
}

func (h *s3Handle) Name() string {
	return baseName(h.key)
}

func (h *s3Handle) GetFile(ctx context.Context) (source.File, error) {
	info, err := h.client.StatObject(ctx, h.bucket, h.key, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NotFound" {
			return nil, errors.Errorf("object %s/%s not found", h.bucket, h.key)
		}
		return nil, errors.Wrapf(err, "stat %s/%s", h.bucket, h.key)
	}
	typ := info.ContentType
	if typ == "" {
		typ = source.TypeByName(h.key)
	}
	return &s3File{h: h, size: info.Size, typ: typ, etag: info.ETag}, nil
}

// s3File is one version of the object, pinned by its ETag.
type s3File struct {
	h    *s3Handle
	size int64
	typ  string
	etag string
}

func (f *s3File) Name() string { return f.h.Name() }
func (f *s3File) Size() int64  { return f.size }
func (f *s3File) Type() string { return f.typ }

func (f *s3File) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if off >= f.size {
		return 0, io.EOF
	}
	end := off + int64(len(p)) - 1
	if end >= f.size {
		end = f.size - 1
	}
	opts := minio.GetObjectOptions{}
	if err := opts.SetRange(off, end); err != nil {
		return 0, err
	}
	if f.etag != "" {
		if err := opts.SetMatchETag(f.etag); err != nil {
			return 0, err
		}
	}
	obj, err := f.h.client.GetObject(ctx, f.h.bucket, f.h.key, opts)
	if err != nil {
		return 0, err
	}
	defer obj.Close()
	n, err := io.ReadFull(obj, p[:end-off+1])
	if err == nil && n < len(p) {
		err = io.EOF
	}
	return n, err
}

func init() {
	Register("s3", newS3Handle)
	Register("minio", newS3Handle)
}
