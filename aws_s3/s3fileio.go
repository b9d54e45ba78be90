package aws_s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/sharedcode/geostore"
	"github.com/sharedcode/geostore/fs"
)

const largeObjectMinSize = 10 * 1024 * 1024

// Batch size cap of the S3 DeleteObjects API.
const deleteBatchSize = 1000

// Max number of concurrent delete batches during RemoveAll.
const deleteBatchThreads = 4

type s3FileIO struct {
	s3Client   *s3.Client
	bucketName string
}

// NewFileIO returns an fs.FileIO over the given bucket. Paths passed in are
// used verbatim as object keys, with "/" as the folder separator; MkdirAll is
// a no-op since buckets have no real folders.
func NewFileIO(s3Client *s3.Client, bucketName string) (fs.FileIO, error) {
	if s3Client == nil {
		return nil, errors.New("s3Client parameter can't be nil")
	}
	return &s3FileIO{
		s3Client:   s3Client,
		bucketName: bucketName,
	}, nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nf)
}

func (b *s3FileIO) objectSize(ctx context.Context, name string) (int64, error) {
	r, err := b.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucketName),
		Key:    aws.String(name),
	})
	if err != nil {
		return 0, err
	}
	return aws.ToInt64(r.ContentLength), nil
}

func (b *s3FileIO) ReadFile(ctx context.Context, name string) ([]byte, error) {
	size, err := b.objectSize(ctx, name)
	if err != nil {
		return nil, geostore.Error{Code: geostore.FileIOError, Err: err, UserData: name}
	}
	// Download the large object in parts.
	if size >= largeObjectMinSize {
		downloader := manager.NewDownloader(b.s3Client, func(d *manager.Downloader) {
			d.PartSize = largeObjectMinSize
		})
		buffer := manager.NewWriteAtBuffer([]byte{})
		if _, err := downloader.Download(ctx, buffer, &s3.GetObjectInput{
			Bucket: aws.String(b.bucketName),
			Key:    aws.String(name),
		}); err != nil {
			return nil, geostore.Error{Code: geostore.FileIOError, Err: err, UserData: name}
		}
		return buffer.Bytes(), nil
	}
	result, err := b.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucketName),
		Key:    aws.String(name),
	})
	if err != nil {
		return nil, geostore.Error{Code: geostore.FileIOError, Err: err, UserData: name}
	}
	defer result.Body.Close()
	ba, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, geostore.Error{Code: geostore.FileIOError, Err: err, UserData: name}
	}
	return ba, nil
}

func (b *s3FileIO) WriteFile(ctx context.Context, name string, data []byte, perm os.FileMode) error {
	// Upload the large object in parts.
	if len(data) >= largeObjectMinSize {
		uploader := manager.NewUploader(b.s3Client, func(u *manager.Uploader) {
			u.PartSize = largeObjectMinSize
		})
		if _, err := uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket: aws.String(b.bucketName),
			Key:    aws.String(name),
			Body:   bytes.NewReader(data),
		}); err != nil {
			return geostore.Error{Code: geostore.FileIOError, Err: err, UserData: name}
		}
		return nil
	}
	if _, err := b.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucketName),
		Key:    aws.String(name),
		Body:   bytes.NewReader(data),
	}); err != nil {
		return geostore.Error{Code: geostore.FileIOError, Err: err, UserData: name}
	}
	return nil
}

func (b *s3FileIO) Remove(ctx context.Context, name string) error {
	if _, err := b.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucketName),
		Key:    aws.String(name),
	}); err != nil {
		return geostore.Error{Code: geostore.FileIOError, Err: err, UserData: name}
	}
	return nil
}

func (b *s3FileIO) Exists(ctx context.Context, path string) bool {
	if _, err := b.objectSize(ctx, path); err == nil {
		return true
	}
	// Not an object; an occupied folder prefix also counts as existing.
	r, err := b.s3Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(b.bucketName),
		Prefix:  aws.String(path + b.Separator()),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return false
	}
	return len(r.Contents) > 0
}

// Rename moves an object, or a whole folder prefix, via copy+delete. S3 has
// no native move; each object copy is atomic but a multi-object rename is not.
func (b *s3FileIO) Rename(ctx context.Context, src string, dst string) error {
	if _, err := b.objectSize(ctx, src); err == nil {
		return b.renameObject(ctx, src, dst)
	} else if !isNotFound(err) {
		return geostore.Error{Code: geostore.FileIOError, Err: err, UserData: src}
	}
	srcPrefix := src + b.Separator()
	dstPrefix := dst + b.Separator()
	names, err := b.listPrefix(ctx, srcPrefix)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := b.renameObject(ctx, name, dstPrefix+strings.TrimPrefix(name, srcPrefix)); err != nil {
			return err
		}
	}
	return nil
}

func (b *s3FileIO) renameObject(ctx context.Context, src string, dst string) error {
	if _, err := b.s3Client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(b.bucketName),
		CopySource: aws.String(b.bucketName + "/" + src),
		Key:        aws.String(dst),
	}); err != nil {
		return geostore.Error{Code: geostore.FileIOError, Err: err, UserData: src}
	}
	return b.Remove(ctx, src)
}

func (b *s3FileIO) listPrefix(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	paginator := s3.NewListObjectsV2Paginator(b.s3Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucketName),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, geostore.Error{Code: geostore.FileIOError, Err: err, UserData: prefix}
		}
		for _, obj := range page.Contents {
			names = append(names, aws.ToString(obj.Key))
		}
	}
	return names, nil
}

// RemoveAll deletes the object at path and everything under it, issuing
// DeleteObjects batches with bounded parallelism.
func (b *s3FileIO) RemoveAll(ctx context.Context, path string) error {
	names, err := b.listPrefix(ctx, path+b.Separator())
	if err != nil {
		return err
	}
	if _, herr := b.objectSize(ctx, path); herr == nil {
		names = append(names, path)
	}
	if len(names) == 0 {
		return nil
	}
	tr := geostore.NewTaskRunner(ctx, deleteBatchThreads)
	for start := 0; start < len(names); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(names) {
			end = len(names)
		}
		batch := names[start:end]
		tr.Go(func() error {
			ids := make([]types.ObjectIdentifier, len(batch))
			for i := range batch {
				ids[i] = types.ObjectIdentifier{Key: aws.String(batch[i])}
			}
			if _, err := b.s3Client.DeleteObjects(tr.GetContext(), &s3.DeleteObjectsInput{
				Bucket: aws.String(b.bucketName),
				Delete: &types.Delete{Objects: ids},
			}); err != nil {
				return geostore.Error{Code: geostore.FileIOError, Err: err, UserData: path}
			}
			return nil
		})
	}
	return tr.Wait()
}

// MkdirAll is a no-op; bucket folders spring into existence with their first object.
func (b *s3FileIO) MkdirAll(ctx context.Context, path string, perm os.FileMode) error {
	return nil
}

func (b *s3FileIO) ReadDir(ctx context.Context, sourceDir string) ([]os.DirEntry, error) {
	prefix := sourceDir + b.Separator()
	var names []string
	var dirs []string
	paginator := s3.NewListObjectsV2Paginator(b.s3Client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(b.bucketName),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String(b.Separator()),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, geostore.Error{Code: geostore.FileIOError, Err: err, UserData: sourceDir}
		}
		for _, obj := range page.Contents {
			names = append(names, strings.TrimPrefix(aws.ToString(obj.Key), prefix))
		}
		for _, cp := range page.CommonPrefixes {
			d := strings.TrimPrefix(aws.ToString(cp.Prefix), prefix)
			dirs = append(dirs, strings.TrimSuffix(d, b.Separator()))
		}
	}
	r := make([]os.DirEntry, 0, len(names)+len(dirs))
	for _, n := range names {
		r = append(r, s3DirEntry{name: n})
	}
	for _, d := range dirs {
		r = append(r, s3DirEntry{name: d, isDir: true})
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Name() < r[j].Name() })
	return r, nil
}

func (b *s3FileIO) Separator() string {
	return "/"
}

type s3FileInfo struct {
	name  string
	isDir bool
}

func (fi s3FileInfo) Name() string       { return fi.name }
func (s3FileInfo) Size() int64           { return 0 }
func (s3FileInfo) Mode() os.FileMode     { return 0 }
func (s3FileInfo) ModTime() time.Time    { return time.Now() }
func (fi s3FileInfo) IsDir() bool        { return fi.isDir }
func (s3FileInfo) Sys() any              { return nil }

type s3DirEntry struct {
	name  string
	isDir bool
}

func (de s3DirEntry) Name() string { return de.name }
func (de s3DirEntry) IsDir() bool  { return de.isDir }
func (de s3DirEntry) Type() os.FileMode {
	if de.isDir {
		return os.ModeDir
	}
	return 0
}
func (de s3DirEntry) Info() (os.FileInfo, error) {
	return s3FileInfo{name: de.name, isDir: de.isDir}, nil
}
