package repository

import (
	"fmt"
	"io"
	"mime/multipart"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
)

// PhotoRepository stores campground photos in MongoDB GridFS. The file id
// is recorded on the campground row as photo_file_id.
type PhotoRepository struct {
	db *mongo.Database
}

func NewPhotoRepository(client *mongo.Client, dbName string) *PhotoRepository {
	return &PhotoRepository{db: client.Database(dbName)}
}

func (r *PhotoRepository) Upload(file multipart.File, filename string) (string, error) {
	bucket, err := gridfs.NewBucket(r.db)
	if err != nil {
		return "", fmt.Errorf("PhotoRepository.Upload: %w", err)
	}

	stream, err := bucket.OpenUploadStream(filename)
	if err != nil {
		return "", fmt.Errorf("PhotoRepository.Upload: %w", err)
	}
	defer stream.Close()

	if _, err := io.Copy(stream, file); err != nil {
		return "", fmt.Errorf("PhotoRepository.Upload: %w", err)
	}
	return stream.FileID.(primitive.ObjectID).Hex(), nil
}

func (r *PhotoRepository) Download(fileID string) ([]byte, string, error) {
	bucket, err := gridfs.NewBucket(r.db)
	if err != nil {
		return nil, "", fmt.Errorf("PhotoRepository.Download: %w", err)
	}

	objID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, "", fmt.Errorf("PhotoRepository.Download: %w", err)
	}

	stream, err := bucket.OpenDownloadStream(objID)
	if err != nil {
		return nil, "", fmt.Errorf("PhotoRepository.Download: %w", err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, "", fmt.Errorf("PhotoRepository.Download: %w", err)
	}
	return data, stream.GetFile().Name, nil
}
