package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donely-api/models"
)

// Smallest PNG header mimetype recognizes
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func memoryFile(name string, content []byte) UploadFile {
	return UploadFile{
		FileName: name,
		Size:     int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}

func pngFile(name string) UploadFile {
	return memoryFile(name, append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 64)...))
}

func countFiles(t *testing.T, root string) int {
	t.Helper()
	count := 0
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	require.NoError(t, err)
	return count
}

func TestUploadStoresImages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.project(t, "Evidence")
	report := f.report(t, project.ID, "Week 1", false)

	resp, err := f.evidences.Upload(ctx, "admin-1", report.ID, nil, []UploadFile{pngFile("screen.png")})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, 0, resp.Failed)

	evidence := resp.Results[0].Evidence
	require.NotNil(t, evidence)
	assert.Equal(t, models.EvidenceTypeImage, evidence.Type)
	assert.Equal(t, "image/png", evidence.MimeType)
	assert.Equal(t, project.ID, evidence.ProjectID)
	assert.Equal(t, "admin-1", evidence.UploadedBy)
	assert.Equal(t, "http://api.test/api/v1/evidences/"+evidence.ID+"/file", evidence.URL)
	assert.Equal(t, evidence.URL, evidence.ThumbnailURL)
	assert.True(t, strings.HasSuffix(evidence.StorageKey, evidence.ID+".png"), evidence.StorageKey)

	listed, err := f.evidences.ListByReport(ctx, report.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, evidence.ID, listed[0].ID)
	assert.Equal(t, int64(len(pngHeader)+64), listed[0].SizeBytes)
}

func TestUploadRejectsWithoutStoring(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.project(t, "Reject")
	report := f.report(t, project.ID, "Week 1", false)

	oversized := pngFile("huge.png")
	oversized.Size = MaxEvidenceSize + 1
	opened := false
	oversized.Open = func() (io.ReadCloser, error) {
		opened = true
		return io.NopCloser(bytes.NewReader(pngHeader)), nil
	}

	resp, err := f.evidences.Upload(ctx, "admin", report.ID, nil, []UploadFile{
		memoryFile("notes.txt", []byte("just some plain text")),
		oversized,
		memoryFile("empty.png", nil),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Succeeded)
	assert.Equal(t, 3, resp.Failed)
	assert.False(t, opened)
	for _, result := range resp.Results {
		assert.Nil(t, result.Evidence)
		assert.NotEmpty(t, result.Error)
	}

	listed, err := f.evidences.ListByReport(ctx, report.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
	assert.Zero(t, countFiles(t, f.storage.Path))
}

func TestUploadRejectsStreamsOverLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.project(t, "Liar")
	report := f.report(t, project.ID, "Week 1", false)

	// The declared size lies; the stream is larger than the limit
	body := append(append([]byte{}, pngHeader...), make([]byte, MaxEvidenceSize)...)
	file := memoryFile("liar.png", body)
	file.Size = 10

	resp, err := f.evidences.Upload(ctx, "admin", report.ID, nil, []UploadFile{file})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Failed)

	listed, err := f.evidences.ListByReport(ctx, report.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
	assert.Zero(t, countFiles(t, f.storage.Path))
}

func TestUploadPartialFailureKeepsEarlierFiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.project(t, "Partial")
	report := f.report(t, project.ID, "Week 1", false)

	resp, err := f.evidences.Upload(ctx, "admin", report.ID, nil, []UploadFile{
		pngFile("a.png"),
		memoryFile("b.txt", []byte("nope")),
		pngFile("c.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, "b.txt", resp.Results[1].FileName)
	assert.NotEmpty(t, resp.Results[1].Error)
}

func TestUploadRemovesObjectWhenMetadataFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.project(t, "Orphan")
	report := f.report(t, project.ID, "Week 1", false)

	f.store.Fail = errors.New("insert failed")
	resp, err := f.evidences.Upload(ctx, "admin", report.ID, nil, []UploadFile{pngFile("a.png")})
	f.store.Fail = nil
	require.NoError(t, err)
	require.Equal(t, 1, resp.Failed)
	assert.Contains(t, resp.Results[0].Error, "insert failed")

	assert.Zero(t, countFiles(t, f.storage.Path))
}

func TestUploadUnknownReport(t *testing.T) {
	f := newFixture(t)
	_, err := f.evidences.Upload(context.Background(), "admin", "missing", nil, []UploadFile{pngFile("a.png")})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestOpenFileAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.project(t, "Download")
	client := f.client(t, "viewer@example.com")
	outsider := f.client(t, "outsider@example.com")
	draft := f.report(t, project.ID, "Draft", false)
	published := f.report(t, project.ID, "Final", true)

	_, err := f.access.Grant(ctx, project.ID, client.ID)
	require.NoError(t, err)

	draftResp, err := f.evidences.Upload(ctx, "admin", draft.ID, nil, []UploadFile{pngFile("draft.png")})
	require.NoError(t, err)
	publishedResp, err := f.evidences.Upload(ctx, "admin", published.ID, nil, []UploadFile{pngFile("final.png")})
	require.NoError(t, err)
	draftID := draftResp.Results[0].Evidence.ID
	publishedID := publishedResp.Results[0].Evidence.ID

	admin := Viewer{UserID: "admin", Role: models.RoleAdmin}
	_, rc, err := f.evidences.OpenFile(ctx, admin, draftID)
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, pngHeader))

	viewer := Viewer{UserID: client.ID, Role: models.RoleClient}
	_, rc, err = f.evidences.OpenFile(ctx, viewer, publishedID)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	_, _, err = f.evidences.OpenFile(ctx, viewer, draftID)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, _, err = f.evidences.OpenFile(ctx, Viewer{UserID: outsider.ID, Role: models.RoleClient}, publishedID)
	assert.True(t, errors.Is(err, ErrForbidden))
}

func TestDeleteEvidence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.project(t, "Remove")
	report := f.report(t, project.ID, "Week 1", false)

	resp, err := f.evidences.Upload(ctx, "admin", report.ID, nil, []UploadFile{pngFile("a.png"), pngFile("b.png")})
	require.NoError(t, err)
	first := resp.Results[0].Evidence

	require.NoError(t, f.evidences.DeleteEvidence(ctx, first.ID))

	_, err = f.storage.Open(ctx, first.StorageKey)
	assert.Error(t, err)

	listed, err := f.evidences.ListByReport(ctx, report.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, resp.Results[1].Evidence.ID, listed[0].ID)

	assert.True(t, errors.Is(f.evidences.DeleteEvidence(ctx, first.ID), ErrNotFound))
}
