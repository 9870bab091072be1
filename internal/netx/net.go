// Package netx has the one piece of raw HTTP the sync engine needs itself:
// pushing attachment bytes to a presigned storage URL handed out by the
// remote authority.
package netx

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// UploadStatusError is a storage-side refusal of a presigned upload: the PUT
// reached the server but came back with a non-OK status.
type UploadStatusError struct {
	Status int
	Body   string
}

func (e *UploadStatusError) Error() string {
	return fmt.Sprintf("upload failed: status %d; body: %s", e.Status, e.Body)
}

// UploadToPresignedURL PUTs the file bytes to a presigned URL. The content
// type is fixed to octet-stream; storage backends ignore it for presigned
// uploads but reject a missing header. A non-OK status is returned as an
// *UploadStatusError so callers can map it onto their error taxonomy.
func UploadToPresignedURL(url string, file []byte) error {
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(file))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return &UploadStatusError{Status: resp.StatusCode, Body: string(b)}
	}
	return nil
}
