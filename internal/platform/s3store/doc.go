// Package s3store implements storage.ObjectStore on top of any S3-compatible
// service (AWS S3, MinIO, R2) using the MinIO Go client.
package s3store
