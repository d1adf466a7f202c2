package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strings"
)

// FilePart is a file attached to a multipart form.
type FilePart struct {
	FieldName   string    // form field name of the part
	FileName    string    // filename reported in Content-Disposition
	ContentType string    // defaults to application/octet-stream
	Content     io.Reader // file content, read once while the body is encoded
}

const (
	formContentType   = "application/x-www-form-urlencoded"
	binaryContentType = "application/octet-stream"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func formRequestOptions(path string, form url.Values, file *FilePart) (RequestOptions, error) {
	opts := RequestOptions{
		Method: http.MethodPost,
		Path:   path,
	}
	if file == nil {
		opts.Body = []byte(form.Encode())
		opts.ContentType = formContentType
		return opts, nil
	}

	body, contentType, err := encodeMultipart(form, file)
	if err != nil {
		return RequestOptions{}, err
	}
	opts.Body = body
	opts.ContentType = contentType
	return opts, nil
}

// encodeMultipart writes the form fields in key order followed by the file part.
func encodeMultipart(form url.Values, file *FilePart) ([]byte, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range form[k] {
			if err := mw.WriteField(k, v); err != nil {
				return nil, "", ErrRequestFailed.MsgErr("failed to encode form field", err)
			}
		}
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = binaryContentType
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(file.FieldName), quoteEscaper.Replace(file.FileName)))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", ErrRequestFailed.MsgErr("failed to create file part", err)
	}
	if file.Content != nil {
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, "", ErrReadContent.MsgErr(fmt.Sprintf("unable to read %s", file.FileName), err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", ErrRequestFailed.MsgErr("failed to finish multipart body", err)
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}
