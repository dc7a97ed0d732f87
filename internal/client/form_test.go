package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-reviewer/internal/testutil"
)

type reviewServer struct {
	*httptest.Server
	requests atomic.Int32
}

func newReviewServer(t *testing.T, handler http.HandlerFunc) *reviewServer {
	t.Helper()
	rs := &reviewServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(rs.Close)
	return rs
}

func pdfFile() *File {
	return &File{Name: "resume.pdf", ContentType: "application/pdf", Data: testutil.BuildPDF("John Doe")}
}

func TestForm_SubmitSuccess(t *testing.T) {
	var gotName, gotType string
	var gotData []byte
	server := newReviewServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		file, header, err := r.FormFile("resume")
		require.NoError(t, err)
		defer file.Close()
		gotName = header.Filename
		gotType = header.Header.Get("Content-Type")
		gotData, _ = io.ReadAll(file)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"feedback":"Tighten your summary."}`))
	})

	form := NewForm(server.URL+"/api/review", 5*time.Second)
	assert.Equal(t, StateIdle, form.State())
	assert.False(t, form.CanSubmit())

	file := pdfFile()
	form.Select(file)
	assert.True(t, form.CanSubmit())

	feedback, err := form.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Tighten your summary.", feedback)
	assert.Equal(t, StateShowingResult, form.State())
	assert.Equal(t, "Tighten your summary.", form.Feedback())
	assert.Empty(t, form.Error())
	assert.Equal(t, "resume.pdf", gotName)
	assert.Equal(t, "application/pdf", gotType)
	assert.Equal(t, file.Data, gotData)
	assert.Equal(t, int32(1), server.requests.Load())
}

func TestForm_SubmitWithoutFile(t *testing.T) {
	server := newReviewServer(t, func(w http.ResponseWriter, r *http.Request) {})
	form := NewForm(server.URL, time.Second)

	_, err := form.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, MsgNoFile, form.Error())
	assert.Equal(t, StateIdle, form.State())
	assert.Equal(t, int32(0), server.requests.Load())
}

func TestForm_DropRejectsNonPDF(t *testing.T) {
	form := NewForm("http://localhost", time.Second)

	ok := form.Drop(&File{Name: "resume.docx", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"})
	assert.False(t, ok)
	assert.Equal(t, MsgNotPDF, form.Error())
	assert.Nil(t, form.File())
	assert.False(t, form.CanSubmit())

	ok = form.Drop(pdfFile())
	assert.True(t, ok)
	assert.Empty(t, form.Error())
	assert.True(t, form.CanSubmit())
}

func TestForm_SubmitFailureIsResubmittable(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	server := newReviewServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":"Review provider failed"}`))
			return
		}
		_, _ = w.Write([]byte(`{"feedback":"ok"}`))
	})

	form := NewForm(server.URL, 5*time.Second)
	form.Select(pdfFile())

	_, err := form.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, MsgRequestFailed, form.Error())
	assert.Equal(t, StateIdle, form.State())
	assert.True(t, form.CanSubmit())

	fail.Store(false)
	feedback, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", feedback)
	assert.Equal(t, int32(2), server.requests.Load())
}

func TestForm_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	form := NewForm(url, time.Second)
	form.Select(pdfFile())

	_, err := form.Submit(context.Background())
	require.Error(t, err)
	assert.NotEmpty(t, form.Error())
	assert.Equal(t, StateIdle, form.State())
	assert.True(t, form.CanSubmit())
}

func TestForm_RejectsConcurrentSubmit(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	server := newReviewServer(t, func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		<-release
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"feedback":"done"}`))
	})

	form := NewForm(server.URL, 5*time.Second)
	form.Select(pdfFile())

	first := make(chan error, 1)
	go func() {
		_, err := form.Submit(context.Background())
		first <- err
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("request never reached the server")
	}

	assert.Equal(t, StateSubmitting, form.State())
	assert.False(t, form.CanSubmit())
	_, err := form.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-first)
	assert.Equal(t, int32(1), server.requests.Load())
}

func TestForm_Reset(t *testing.T) {
	server := newReviewServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"feedback":"ok"}`))
	})

	form := NewForm(server.URL, 5*time.Second)
	form.Select(pdfFile())
	_, err := form.Submit(context.Background())
	require.NoError(t, err)

	form.Reset()
	assert.Equal(t, StateIdle, form.State())
	assert.Nil(t, form.File())
	assert.Empty(t, form.Feedback())
	assert.Empty(t, form.Error())
}

func TestFileFromPath(t *testing.T) {
	dir := t.TempDir()

	pdfPath := filepath.Join(dir, "Resume.PDF")
	require.NoError(t, os.WriteFile(pdfPath, testutil.BuildPDF("John Doe"), 0o644))
	file, err := FileFromPath(pdfPath)
	require.NoError(t, err)
	assert.Equal(t, "Resume.PDF", file.Name)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Positive(t, file.Size())

	txtPath := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("John Doe"), 0o644))
	file, err = FileFromPath(txtPath)
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", file.ContentType)

	_, err = FileFromPath(filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)
}
