package dbmongo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gofun/internal/common"
)

// MediaStorage keeps uploaded image and video files in GridFS.
type MediaStorage struct {
	gridFS *gridfs.Bucket
	now    func() time.Time
}

var _ common.MediaStore = (*MediaStorage)(nil)

func NewMediaStorage(mongoClient *MongoClient) *MediaStorage {
	return &MediaStorage{
		gridFS: mongoClient.GridFS,
		now:    time.Now,
	}
}

func (ms *MediaStorage) UploadFile(ctx context.Context, filename, mimeType, uploaderID string, content io.Reader) (*common.MediaFile, error) {
	uploadedAt := ms.now().UTC()
	fileType := common.DetectContentType(mimeType)

	opts := options.GridFSUpload().SetMetadata(uploadMetadata(fileType, mimeType, uploaderID, uploadedAt))
	stream, err := ms.gridFS.OpenUploadStream(filename, opts)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	size, err := io.Copy(stream, content)
	if err != nil {
		stream.Abort()
		return nil, fmt.Errorf("file copy failed: %w", err)
	}
	// The files document is only written on Close
	if err := stream.Close(); err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	return &common.MediaFile{
		ID:         stream.FileID.(primitive.ObjectID).Hex(),
		Filename:   filename,
		Size:       size,
		FileType:   fileType,
		MimeType:   mimeType,
		UploadedBy: uploaderID,
		UploadedAt: uploadedAt,
	}, nil
}

func (ms *MediaStorage) DownloadFile(ctx context.Context, fileID string) (io.Reader, *common.MediaFile, error) {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid file ID: %w", err)
	}

	stream, err := ms.gridFS.OpenDownloadStream(objectID)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, nil, common.NewNotFoundError("media file", fileID)
		}
		return nil, nil, fmt.Errorf("download failed: %w", err)
	}

	fileInfo := stream.GetFile()
	var metadata bson.M
	if fileInfo.Metadata != nil {
		if err := bson.Unmarshal(fileInfo.Metadata, &metadata); err != nil {
			stream.Close()
			return nil, nil, fmt.Errorf("corrupt metadata for %s: %w", fileID, err)
		}
	}

	mediaFile := mediaFileFromMetadata(metadata)
	mediaFile.ID = fileID
	mediaFile.Filename = fileInfo.Name
	mediaFile.Size = fileInfo.Length
	mediaFile.UploadedAt = fileInfo.UploadDate

	return stream, mediaFile, nil
}

func (ms *MediaStorage) DeleteFile(ctx context.Context, fileID string) error {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return fmt.Errorf("invalid file ID: %w", err)
	}
	return ms.gridFS.Delete(objectID)
}

func uploadMetadata(fileType common.ContentType, mimeType, uploaderID string, at time.Time) bson.M {
	return bson.M{
		"file_type":   fileType.String(),
		"mime_type":   mimeType,
		"uploaded_by": uploaderID,
		"uploaded_at": at,
	}
}

// mediaFileFromMetadata reads back what uploadMetadata wrote.
func mediaFileFromMetadata(metadata bson.M) *common.MediaFile {
	mimeType := getStringFromMap(metadata, "mime_type")
	fileType := common.ContentType(getStringFromMap(metadata, "file_type"))
	if !fileType.HasMedia() {
		fileType = common.DetectContentType(mimeType)
	}
	return &common.MediaFile{
		FileType:   fileType,
		MimeType:   mimeType,
		UploadedBy: getStringFromMap(metadata, "uploaded_by"),
	}
}

func getStringFromMap(m bson.M, key string) string {
	if m == nil {
		return ""
	}
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}
