package reports

import (
	"bytes"
	"context"
	"fmt"
	"medledger-service/internal/app/contracts"
	"medledger-service/internal/pkg/exceptions"

	"github.com/minio/minio-go/v7"
)

type minioReportStorage struct {
	MinioClient *minio.Client
	BucketName  string
}

func NewMinioReportStorage(minioClient *minio.Client, bucketName string) contracts.ReportStorage {
	return &minioReportStorage{
		MinioClient: minioClient,
		BucketName:  bucketName,
	}
}

func (m *minioReportStorage) StoreReportAttachment(ctx context.Context, orderID, fileName, contentType string, data []byte) (string, error) {
	objectName := fmt.Sprintf("%s/%s", orderID, fileName)
	_, err := m.MinioClient.PutObject(
		ctx,
		m.BucketName,
		objectName,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{
			ContentType: contentType,
		},
	)
	if err != nil {
		return "", exceptions.ErrMinioCreateObject(err, m.BucketName)
	}

	return objectName, nil
}
