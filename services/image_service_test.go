package services

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamsy-solar/shamsy-api/utils"
)

func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	part.Write(content)
	writer.Close()

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["image"][0]
}

func TestS3ImageServiceRoundTrip(t *testing.T) {
	s3Mock := NewMockS3Service()
	imageService := &S3ImageService{s3Service: s3Mock}

	fileHeader := makeFileHeader(t, "photo.png", []byte("png bytes"))

	key, err := imageService.UploadImage(fileHeader)
	assert.NoError(t, err)
	assert.True(t, s3Mock.FileExists(key))

	url, err := imageService.GetImageURL(key)
	assert.NoError(t, err)
	assert.NotEmpty(t, url)

	assert.NoError(t, imageService.DeleteImage(key))
	assert.False(t, s3Mock.FileExists(key))
}

func TestS3ImageServiceRejectsInvalidFile(t *testing.T) {
	s3Mock := NewMockS3Service()
	imageService := &S3ImageService{s3Service: s3Mock}

	fileHeader := makeFileHeader(t, "malware.exe", []byte("MZ"))

	_, err := imageService.UploadImage(fileHeader)
	uploadErr, ok := err.(*utils.FileUploadError)
	require.True(t, ok, "expected a FileUploadError, got %v", err)
	assert.Equal(t, "INVALID_FILE_FORMAT", uploadErr.Code)
}

func TestImageServiceGlobals(t *testing.T) {
	original := GetImageService()
	defer SetImageService(original)

	mock := NewMockImageService()
	mock.SetAsMockForTesting()
	assert.Same(t, ImageService(mock), GetImageService())
}
