package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"
)

type evidenceStorageStub struct {
	uploaded bytes.Buffer
	name     string
}

func (s *evidenceStorageStub) Upload(_ context.Context, name string, reader io.Reader) (string, error) {
	s.name = name
	s.uploaded.Reset()
	if _, err := s.uploaded.ReadFrom(reader); err != nil {
		return "", err
	}
	return "https://cdn.example.com/" + name, nil
}

func TestUploadServiceRejectsOversizedFile(t *testing.T) {
	storage := &evidenceStorageStub{}
	svc := NewUploadService(storage, 1, testLogger())

	file := buildFileHeader(t, "evidence.pdf", bytes.Repeat([]byte("a"), 2*1024*1024))

	_, err := svc.Upload(context.Background(), file)
	require.ErrorIs(t, err, ErrUploadTooLarge)
}

func TestUploadServiceRejectsDisallowedType(t *testing.T) {
	storage := &evidenceStorageStub{}
	svc := NewUploadService(storage, 5, testLogger())

	file := buildFileHeader(t, "notes.txt", []byte("plain text evidence"))

	_, err := svc.Upload(context.Background(), file)
	require.ErrorIs(t, err, ErrUploadTypeNotAllowed)
}

func TestUploadServiceStoresImageEvidence(t *testing.T) {
	storage := &evidenceStorageStub{}
	svc := NewUploadService(storage, 5, testLogger())

	pngHeader := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	file := buildFileHeader(t, "获奖证书 Scan.PNG", pngHeader)

	resp, err := svc.Upload(context.Background(), file)
	require.NoError(t, err)
	require.Equal(t, "image", resp.MimeType)
	require.Equal(t, int64(len(pngHeader)), resp.SizeBytes)
	require.NotEmpty(t, resp.Checksum)
	// Non-ASCII runs collapse into dashes; the extension is kept lowercased.
	require.Equal(t, "scan.png", storage.name)
	require.Contains(t, resp.URL, storage.name)
}

func buildFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {"form-data; name=\"file\"; filename=\"" + filename + "\""},
		"Content-Type":        {"application/octet-stream"},
	})
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content) + 1024))
	require.NoError(t, err)
	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}
