package testutil

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
)

// MultipartBody encodes a single file part and returns the body together
// with its Content-Type header value.
func MultipartBody(field, filename, contentType string, data []byte) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}

// FileHeader round-trips data through a multipart form so tests get a real
// *multipart.FileHeader.
func FileHeader(filename, contentType string, data []byte) (*multipart.FileHeader, error) {
	body, ct, err := MultipartBody("resume", filename, contentType, data)
	if err != nil {
		return nil, err
	}

	boundary := ct[len("multipart/form-data; boundary="):]
	form, err := multipart.NewReader(body, boundary).ReadForm(int64(len(data)) + 1024)
	if err != nil {
		return nil, err
	}

	files := form.File["resume"]
	if len(files) == 0 {
		return nil, fmt.Errorf("no file part in form")
	}
	return files[0], nil
}
