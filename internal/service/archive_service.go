package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

const presignExpiry = 15 * time.Minute

// ArchiveService copies receipts and exports to object storage and hands
// back short-lived download links.
type ArchiveService interface {
	ArchiveReceipt(ctx context.Context, billID string, pdf []byte) (string, error)
	ArchiveExport(ctx context.Context, filename string, csv []byte) (string, error)
}

type archiveService struct {
	s3Client      *s3.Client
	presignClient *s3.PresignClient
	bucketName    string
	logger        zerolog.Logger
}

func NewArchiveService(s3Client *s3.Client, bucketName string, logger zerolog.Logger) ArchiveService {
	return &archiveService{
		s3Client:      s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucketName:    bucketName,
		logger:        logger.With().Str("service", "ArchiveService").Logger(),
	}
}

// ReceiptObjectKey is where a bill's receipt is archived.
func ReceiptObjectKey(billID string) string {
	return fmt.Sprintf("receipts/%s.pdf", billID)
}

// ExportObjectKey is where a CSV export is archived.
func ExportObjectKey(filename string) string {
	return "exports/" + filename
}

func (s *archiveService) ArchiveReceipt(ctx context.Context, billID string, pdf []byte) (string, error) {
	return s.put(ctx, ReceiptObjectKey(billID), "application/pdf", pdf)
}

func (s *archiveService) ArchiveExport(ctx context.Context, filename string, csv []byte) (string, error) {
	return s.put(ctx, ExportObjectKey(filename), "text/csv; charset=utf-8", csv)
}

func (s *archiveService) put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("object_key", key).Msg("Failed to upload object")
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	resp, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		s.logger.Error().Err(err).Str("object_key", key).Msg("Failed to generate presigned URL")
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	s.logger.Info().Str("object_key", key).Int("bytes", len(body)).Msg("Object archived")
	return resp.URL, nil
}

// UnavailableArchive is used when no bucket is configured.
type UnavailableArchive struct{}

func (UnavailableArchive) ArchiveReceipt(context.Context, string, []byte) (string, error) {
	return "", ErrArchiveUnavailable
}

func (UnavailableArchive) ArchiveExport(context.Context, string, []byte) (string, error) {
	return "", ErrArchiveUnavailable
}
