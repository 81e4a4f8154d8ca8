package googleDriveApi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"time"

	"github.com/KotFed0t/isin_resolver/config"
	"github.com/KotFed0t/isin_resolver/utils"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const downloadLinkTemplate = "https://drive.google.com/file/d/%s/view"

var ErrNoCredentials = errors.New("google drive credentials file is not configured")

// GoogleDriveApi publishes exported tables to a service-account drive.
type GoogleDriveApi struct {
	srv     *drive.Service
	fileTTL time.Duration
	now     func() time.Time
}

func New(ctx context.Context, cfg *config.Config, opts ...option.ClientOption) (*GoogleDriveApi, error) {
	if cfg.GoogleDrive.CredentialsFile == "" && len(opts) == 0 {
		return nil, ErrNoCredentials
	}
	if cfg.GoogleDrive.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleDrive.CredentialsFile))
	}

	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		slog.Error("failed on drive.NewService", slog.String("err", err.Error()))
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &GoogleDriveApi{srv: srv, fileTTL: cfg.GoogleDrive.FileTTL, now: time.Now}, nil
}

// UploadFile stores the file, shares it with anyone holding the link and returns that link.
func (a *GoogleDriveApi) UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error) {
	runID := utils.GetRunIDFromCtx(ctx)
	op := "GoogleDriveApi.UploadFile"

	slog.Debug("UploadFile start", slog.String("runID", runID), slog.String("op", op), slog.String("filename", filename))

	fileMeta := &drive.File{
		Name:     filename,
		MimeType: mimeType(filename),
	}

	// media upload is chunked and retried by the client
	uploadedFile, err := a.srv.Files.
		Create(fileMeta).
		Media(reader).
		Context(ctx).
		Do()
	if err != nil {
		slog.Error("failed on uploading file to google drive", slog.String("runID", runID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	perm := &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}

	_, err = a.srv.Permissions.Create(uploadedFile.Id, perm).Context(ctx).Do()
	if err != nil {
		slog.Error("failed on creating permission to uploaded file in google drive", slog.String("runID", runID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	slog.Debug("UploadFile completed", slog.String("runID", runID), slog.String("op", op), slog.String("fileID", uploadedFile.Id))

	return fmt.Sprintf(downloadLinkTemplate, uploadedFile.Id), nil
}

// DeleteOldFiles removes uploads older than GOOGLE_DRIVE_FILE_TTL. Single failures are logged and skipped.
func (a *GoogleDriveApi) DeleteOldFiles(ctx context.Context) error {
	runID := utils.GetRunIDFromCtx(ctx)
	op := "GoogleDriveApi.DeleteOldFiles"

	slog.Debug("DeleteOldFiles start", slog.String("runID", runID), slog.String("op", op))
	r, err := a.srv.Files.List().Fields("files(id, createdTime)").Context(ctx).Do()
	if err != nil {
		slog.Error("failed on getting files", slog.String("runID", runID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	expired := expiredFileIDs(ctx, r.Files, a.now().Add(-a.fileTTL))

	deletedFiles := 0
	for _, id := range expired {
		err = a.srv.Files.Delete(id).Context(ctx).Do()
		if err != nil {
			slog.Error(
				"failed delete file",
				slog.String("runID", runID),
				slog.String("op", op),
				slog.String("err", err.Error()),
				slog.String("fileID", id),
			)
			continue
		}
		deletedFiles++
	}

	err = a.srv.Files.EmptyTrash().Context(ctx).Do()
	if err != nil {
		slog.Error("failed empty trash", slog.String("runID", runID), slog.String("op", op), slog.String("err", err.Error()))
	}

	slog.Info("delete old files done", slog.String("runID", runID), slog.Int("deletedFiles", deletedFiles), slog.Int("remaining files", len(r.Files)-deletedFiles))

	return nil
}

func expiredFileIDs(ctx context.Context, files []*drive.File, cutoff time.Time) []string {
	runID := utils.GetRunIDFromCtx(ctx)

	ids := make([]string, 0)
	for _, f := range files {
		createdTime, err := time.Parse(time.RFC3339, f.CreatedTime)
		if err != nil {
			slog.Error(
				"failed parse time",
				slog.String("runID", runID),
				slog.String("err", err.Error()),
				slog.String("fileID", f.Id),
				slog.String("createdTime", f.CreatedTime),
			)
			continue
		}

		if createdTime.Before(cutoff) {
			ids = append(ids, f.Id)
		}
	}
	return ids
}

func mimeType(filename string) string {
	if t := mime.TypeByExtension(filepath.Ext(filename)); t != "" {
		return t
	}
	return "application/octet-stream"
}
