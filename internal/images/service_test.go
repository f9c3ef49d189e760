package images

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/angelmondragon/giftshop-backend/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
	"github.com/angelmondragon/giftshop-backend/pkg/storage/gcs"
)

// smallest valid PNG header is enough for content sniffing
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type stubHost struct {
	uploaded  gcs.UploadInput
	body      []byte
	deleted   []string
	uploadErr error
	deleteErr error
}

func (s *stubHost) List(ctx context.Context, folder, pageToken string, pageSize int) (gcs.ListPage, error) {
	return gcs.ListPage{}, nil
}

func (s *stubHost) Upload(ctx context.Context, in gcs.UploadInput) (gcs.Object, error) {
	if s.uploadErr != nil {
		return gcs.Object{}, s.uploadErr
	}
	s.uploaded = in
	s.body, _ = io.ReadAll(in.Body)
	return gcs.Object{Name: in.Name, URL: testBase + in.Name, ContentType: in.ContentType}, nil
}

func (s *stubHost) Delete(ctx context.Context, name string) error {
	s.deleted = append(s.deleted, name)
	return s.deleteErr
}

func (s *stubHost) ObjectName(rawURL string) (string, bool) {
	if !strings.HasPrefix(rawURL, testBase) {
		return "", false
	}
	return strings.TrimPrefix(rawURL, testBase), true
}

type stubSync struct {
	report SyncReport
	err    error
}

func (s stubSync) Run(ctx context.Context) (SyncReport, error) {
	return s.report, s.err
}

func newTestService(t *testing.T, host *stubHost) Service {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(client.DB()), host, stubSync{}, ServiceOptions{Folder: "giftshop", MaxUploadBytes: 1 << 20}, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestUploadStoresObjectAndRow(t *testing.T) {
	host := &stubHost{}
	svc := newTestService(t, host)

	dto, err := svc.Upload(context.Background(), UploadInput{
		FileName:    "Taza Roja.PNG",
		ContentType: "application/octet-stream",
		Size:        int64(len(pngBytes)),
		Body:        bytes.NewReader(pngBytes),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(host.uploaded.Name, "giftshop/taza-roja-") || !strings.HasSuffix(host.uploaded.Name, ".png") {
		t.Fatalf("unexpected object name %s", host.uploaded.Name)
	}
	if host.uploaded.ContentType != "image/png" {
		t.Fatalf("expected detected content type, got %s", host.uploaded.ContentType)
	}
	if !bytes.Equal(host.body, pngBytes) {
		t.Fatalf("sniffed bytes must be forwarded to the host")
	}
	if dto.Alt != "Taza Roja" || dto.URL != testBase+host.uploaded.Name {
		t.Fatalf("unexpected dto %+v", dto)
	}
}

func TestUploadRejectsNonImages(t *testing.T) {
	svc := newTestService(t, &stubHost{})
	_, err := svc.Upload(context.Background(), UploadInput{
		FileName: "notas.txt",
		Size:     5,
		Body:     strings.NewReader("hola!"),
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadRejectsOversizedFiles(t *testing.T) {
	svc := newTestService(t, &stubHost{})
	_, err := svc.Upload(context.Background(), UploadInput{FileName: "x.png", Size: 2 << 20, Body: bytes.NewReader(pngBytes)})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteRemovesRemoteAndRow(t *testing.T) {
	host := &stubHost{deleteErr: gcs.ErrObjectNotFound}
	svc := newTestService(t, host)
	ctx := context.Background()

	dto, err := svc.Upload(ctx, UploadInput{FileName: "mate.png", Size: int64(len(pngBytes)), Body: bytes.NewReader(pngBytes)})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := svc.Delete(ctx, dto.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(host.deleted) != 1 || host.deleted[0] != host.uploaded.Name {
		t.Fatalf("expected remote delete, got %v", host.deleted)
	}
	if _, err := svc.Get(ctx, dto.ID); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestDeleteKeepsRowWhenRemoteFails(t *testing.T) {
	host := &stubHost{}
	svc := newTestService(t, host)
	ctx := context.Background()

	dto, err := svc.Upload(ctx, UploadInput{FileName: "mate.png", Size: int64(len(pngBytes)), Body: bytes.NewReader(pngBytes)})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	host.deleteErr = errors.New("gcs down")
	if err := svc.Delete(ctx, dto.ID); !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if _, err := svc.Get(ctx, dto.ID); err != nil {
		t.Fatalf("row should survive failed remote delete: %v", err)
	}
}

func TestUpdateTrimsAltAndClearsTag(t *testing.T) {
	svc := newTestService(t, &stubHost{})
	ctx := context.Background()
	tag := "promo"
	dto, err := svc.Upload(ctx, UploadInput{FileName: "mate.png", Tag: &tag, Size: int64(len(pngBytes)), Body: bytes.NewReader(pngBytes)})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	alt := "  Mate imperial  "
	empty := " "
	updated, err := svc.Update(ctx, dto.ID, UpdateInput{Alt: &alt, Tag: &empty})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Alt != "Mate imperial" || updated.Tag != nil {
		t.Fatalf("unexpected update result %+v", updated)
	}
}
